// Package injection demonstrates SQL injection against a small accounts
// table, side by side with the parameter-bound queries that defeat it.
//
// The vulnerable paths go through database/sql with lib/pq and no bind
// arguments, which sends the text over the simple query protocol. That
// protocol accepts several statements at once, so stacked payloads such as
// "'; DROP TABLE ..." really do execute there.
package injection

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const Table = "injection_accounts"

type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Payload is a classic malicious input with a short label.
type Payload struct {
	Name  string
	Input string
}

// Payloads are the inputs the demonstration feeds to every query path.
var Payloads = []Payload{
	{Name: "auth bypass", Input: "admin' --"},
	{Name: "union", Input: "' UNION SELECT id, username, email, is_admin FROM " + Table + " --"},
	{Name: "stacked drop", Input: "'; DROP TABLE " + Table + "; --"},
	{Name: "tautology", Input: "' OR '1'='1"},
}

// Filter narrows SecureFilter. Nil fields are ignored.
type Filter struct {
	Username *string
	IsAdmin  *bool
}

// Querier is the pgx side of the lab, satisfied by *pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Lab struct {
	db     *sql.DB
	pgx    Querier
	logger *zerolog.Logger
}

func NewLab(db *sql.DB, pgxDB Querier, logger *zerolog.Logger) *Lab {
	return &Lab{db: db, pgx: pgxDB, logger: logger}
}

const selectAccounts = "SELECT id, username, email, is_admin FROM " + Table

const setupSQL = `
DROP TABLE IF EXISTS ` + Table + `;
CREATE TABLE ` + Table + ` (
    id       SERIAL PRIMARY KEY,
    username VARCHAR(50) UNIQUE,
    email    VARCHAR(100),
    is_admin BOOLEAN NOT NULL DEFAULT false
);
INSERT INTO ` + Table + ` (username, email, is_admin) VALUES
    ('admin', 'admin@test.com', true),
    ('user1', 'user1@test.com', false);`

// Setup drops, recreates and seeds the accounts table.
func (l *Lab) Setup(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, setupSQL); err != nil {
		return fmt.Errorf("setting up %s: %w", Table, err)
	}
	l.logger.Info().Str("table", Table).Msg("injection lab table ready")
	return nil
}

// VulnerableAuth concatenates username into the SQL text. It returns the
// first matching account and the query that was sent.
func (l *Lab) VulnerableAuth(ctx context.Context, username string) (*Account, string, error) {
	query := selectAccounts + " WHERE username = '" + username + "'"
	l.logger.Warn().Str("query", query).Msg("vulnerable query")

	accounts, err := l.queryAccounts(ctx, query)
	if err != nil {
		return nil, query, err
	}
	if len(accounts) == 0 {
		return nil, query, nil
	}
	return &accounts[0], query, nil
}

// VulnerableSearch concatenates term into a LIKE pattern.
func (l *Lab) VulnerableSearch(ctx context.Context, term string) ([]Account, string, error) {
	query := selectAccounts + " WHERE username LIKE '%" + term + "%'"
	l.logger.Warn().Str("query", query).Msg("vulnerable query")

	accounts, err := l.queryAccounts(ctx, query)
	return accounts, query, err
}

// SecureAuth binds username as $1 through lib/pq.
func (l *Lab) SecureAuth(ctx context.Context, username string) (*Account, error) {
	query := selectAccounts + " WHERE username = $1"
	l.logger.Info().Str("query", query).Str("param", username).Msg("bound query")

	accounts, err := l.queryAccounts(ctx, query, username)
	if err != nil || len(accounts) == 0 {
		return nil, err
	}
	return &accounts[0], nil
}

// SecureAuthNamed binds username by name through pgx.
func (l *Lab) SecureAuthNamed(ctx context.Context, username string) (*Account, error) {
	query := selectAccounts + " WHERE username = @username"
	l.logger.Info().Str("query", query).Str("param", username).Msg("bound query")

	rows, err := l.pgx.Query(ctx, query, pgx.NamedArgs{"username": username})
	if err != nil {
		return nil, err
	}

	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Account, error) {
		var a Account
		err := row.Scan(&a.ID, &a.Username, &a.Email, &a.IsAdmin)
		return a, err
	})
	if err != nil || len(accounts) == 0 {
		return nil, err
	}
	return &accounts[0], nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SecureSearch binds the LIKE pattern, with wildcards in term escaped.
func (l *Lab) SecureSearch(ctx context.Context, term string) ([]Account, error) {
	query := selectAccounts + ` WHERE username LIKE $1 ESCAPE '\'`
	return l.queryAccounts(ctx, query, "%"+likeEscaper.Replace(term)+"%")
}

// SecureFilter builds its WHERE clause from fixed fragments only; values are
// always bound. It returns the matching accounts, the query and its args.
func (l *Lab) SecureFilter(ctx context.Context, f Filter) ([]Account, string, []any, error) {
	query := selectAccounts + " WHERE 1=1"
	var args []any

	if f.Username != nil {
		args = append(args, *f.Username)
		query += fmt.Sprintf(" AND username = $%d", len(args))
	}
	if f.IsAdmin != nil {
		args = append(args, *f.IsAdmin)
		query += fmt.Sprintf(" AND is_admin = $%d", len(args))
	}
	query += " ORDER BY id"

	l.logger.Info().Str("query", query).Interface("params", args).Msg("dynamic bound query")

	accounts, err := l.queryAccounts(ctx, query, args...)
	return accounts, query, args, err
}

func (l *Lab) queryAccounts(ctx context.Context, query string, args ...any) ([]Account, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.IsAdmin); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
