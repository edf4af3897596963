// Package sqlerr normalizes PostgreSQL errors.
//
// Raw driver errors carry a SQLSTATE and a pile of metadata. The types here
// fold the SQLSTATEs this application cares about into a small Code enum so
// repositories and handlers can switch on them without string matching.
package sqlerr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Code is the category of a database error.
type Code string

const (
	Other               Code = "other"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	NotNullViolation    Code = "not_null_violation"
	CheckViolation      Code = "check_violation"
	InvalidCatalogName  Code = "invalid_catalog_name"
	DuplicateDatabase   Code = "duplicate_database"
)

// Severity mirrors the severity reported by the server.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized PostgreSQL error. The original driver error stays
// reachable through Unwrap.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode folds a SQLSTATE into a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case pgerrcode.ForeignKeyViolation:
		return ForeignKeyViolation
	case pgerrcode.UniqueViolation:
		return UniqueViolation
	case pgerrcode.NotNullViolation:
		return NotNullViolation
	case pgerrcode.CheckViolation:
		return CheckViolation
	case pgerrcode.InvalidCatalogName:
		return InvalidCatalogName
	case pgerrcode.DuplicateDatabase:
		return DuplicateDatabase
	default:
		return Other
	}
}

// MapSeverity converts the server's severity string. Unknown values map to
// SeverityError.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}

// IsUniqueViolation reports whether err, or anything it wraps, is a unique
// constraint violation.
func IsUniqueViolation(err error) bool {
	return codeOf(err) == UniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return codeOf(err) == ForeignKeyViolation
}

// IsCheckViolation reports whether err is a CHECK constraint violation.
func IsCheckViolation(err error) bool {
	return codeOf(err) == CheckViolation
}

func codeOf(err error) Code {
	if err == nil {
		return Other
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}
	return ErrCode(err)
}
