package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/plantops/internal/core/calendar"
)

// nullDate converts a calendar day to a nullable TEXT column value.
func nullDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: calendar.Format(t), Valid: true}
}

// nullString converts an optional string to a nullable column value.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// scanDate parses a nullable TEXT date column.
func scanDate(col string, ns sql.NullString) (time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return time.Time{}, nil
	}
	t, err := calendar.ParseDate(ns.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad %s: %w", col, err)
	}
	return t, nil
}

// formatTimestamp renders a DATETIME column the same way across repositories.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
