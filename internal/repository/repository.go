// Package repository handles all interactions with the relational database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
//
// Missing rows are not errors here: lookups return nil, updates and
// deletes return false. Constraint violations are returned as the driver
// reported them and can be classified with the sqlerr package.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrEmptyUpdate is returned by partial updates that set no field.
var ErrEmptyUpdate = errors.New("repository: no fields to update")

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn, pgx.Tx and the pgxmock
// pool and connection.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// inTx runs fn inside a transaction, committing when fn succeeds and
// rolling back otherwise.
func inTx(ctx context.Context, db DBTX, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// setClause accumulates "column = $n" fragments for partial updates.
// Column names always come from code, values are always bound.
type setClause struct {
	parts []string
	args  []any
}

func (s *setClause) add(column string, value any) {
	s.args = append(s.args, value)
	s.parts = append(s.parts, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setClause) empty() bool {
	return len(s.parts) == 0
}

func (s *setClause) String() string {
	return strings.Join(s.parts, ", ")
}

// nextArg appends value and returns its placeholder.
func (s *setClause) nextArg(value any) string {
	s.args = append(s.args, value)
	return fmt.Sprintf("$%d", len(s.args))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user input into a LIKE pattern matching it as a
// literal substring.
func containsPattern(input string) string {
	return "%" + likeEscaper.Replace(input) + "%"
}
