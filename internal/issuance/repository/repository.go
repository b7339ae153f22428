// Package repository implements persistence for organizers, events and certificates.
// Both PostgreSQL and MySQL are supported. Reference identifiers are unique per table and a
// unique violation on insert surfaces as ErrReferenceConflict so callers can retry.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

const (
	postgresUniqueViolation = "23505"
	mysqlDuplicateEntry     = 1062
)

// isPostgresUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isPostgresUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == postgresUniqueViolation
}

// isMySQLDuplicateEntry reports whether err is a MySQL duplicate key error.
func isMySQLDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
