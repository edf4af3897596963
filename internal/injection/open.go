package injection

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Registers the "postgres" driver for database/sql.
	_ "github.com/lib/pq"
)

// OpenSQL opens a database/sql handle on dsn through lib/pq and pings it.
func OpenSQL(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening lib/pq connection: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}
