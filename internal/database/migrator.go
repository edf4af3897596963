package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"

	"github.com/stud0000299683/bd-special/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the schema to the latest embedded migration. The applied
// version is tracked in the schema_version table.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, DSN(&cfg.Database))
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}
	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}

// catalog is the part of a connection EnsureDatabase needs.
type catalog interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnsureDatabase creates the configured database when it does not exist.
// It connects to the maintenance database (usually "postgres") since the
// target cannot be connected to before it exists. Reports whether the
// database was created.
func EnsureDatabase(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) (bool, error) {
	conn, err := pgx.Connect(ctx, dsnFor(&cfg.Database, cfg.Database.MaintenanceName))
	if err != nil {
		return false, fmt.Errorf("connecting to maintenance database: %w", err)
	}
	defer conn.Close(ctx)

	created, err := ensureDatabase(ctx, conn, cfg.Database.Name)
	if err != nil {
		return false, err
	}

	if created {
		logger.Info().Str("database", cfg.Database.Name).Msg("database created")
	} else {
		logger.Info().Str("database", cfg.Database.Name).Msg("database already exists")
	}
	return created, nil
}

func ensureDatabase(ctx context.Context, conn catalog, name string) (bool, error) {
	var exists bool
	err := conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking database %q: %w", name, err)
	}
	if exists {
		return false, nil
	}

	// CREATE DATABASE takes no bind parameters, so the name is quoted.
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return false, fmt.Errorf("creating database %q: %w", name, err)
	}
	return true, nil
}
