package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUndefinedTable    = "42P01"
	mysqlNoSuchTable    = 1146
	sqliteNoSuchTable   = "no such table"
	pgRelationNotExists = "does not exist"
)

// IsMissingTableErr reports whether err is the driver's "table does not exist" error.
func IsMissingTableErr(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoSuchTable
	}

	// sqlite drivers only expose the message
	msg := err.Error()
	if strings.Contains(msg, sqliteNoSuchTable) {
		return true
	}
	return strings.Contains(msg, pgUndefinedTable) ||
		(strings.Contains(msg, "relation") && strings.Contains(msg, pgRelationNotExists))
}
