package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsMissingTableErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "postgres_undefined_table", err: &pgconn.PgError{Code: "42P01"}, want: true},
		{name: "postgres_wrapped", err: fmt.Errorf("load lead_log: %w", &pgconn.PgError{Code: "42P01"}), want: true},
		{name: "postgres_other_code", err: &pgconn.PgError{Code: "28P01"}, want: false},
		{name: "postgres_message", err: errors.New(`ERROR: relation "lead_log" does not exist (SQLSTATE 42P01)`), want: true},
		{name: "mysql_no_such_table", err: &mysql.MySQLError{Number: 1146, Message: "Table 'referrals.lead_log' doesn't exist"}, want: true},
		{name: "mysql_other", err: &mysql.MySQLError{Number: 1045, Message: "Access denied"}, want: false},
		{name: "sqlite", err: errors.New("no such table: lead_log"), want: true},
		{name: "other", err: errors.New("connection refused"), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsMissingTableErr(tc.err); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
