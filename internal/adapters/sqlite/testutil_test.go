// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/plantops/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// a second connection would see a different in-memory database
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// day returns a UTC calendar date.
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seedEngineer inserts a test engineer and returns its ID.
func seedEngineer(t *testing.T, db *sql.DB, id, role, skills string) string {
	t.Helper()
	if id == "" {
		id = "ENG-001"
	}
	if role == "" {
		role = "Engineer"
	}
	_, err := db.Exec("INSERT INTO engineers (id, name, role, skills) VALUES (?, ?, ?, ?)", id, "Engineer "+id, role, skills)
	if err != nil {
		t.Fatalf("failed to seed engineer: %v", err)
	}
	return id
}

// seedTask inserts an Open task and returns its ID.
func seedTask(t *testing.T, db *sql.DB, id, assetType, dueDate string) string {
	t.Helper()
	if id == "" {
		id = "TASK-001"
	}
	if dueDate == "" {
		dueDate = "2026-10-19"
	}
	_, err := db.Exec(
		"INSERT INTO tasks (id, location, asset_type, due_date, type, status, priority) VALUES (?, 'Plant Room', NULLIF(?, ''), ?, 'Planned Maintenance', 'Open', 'Medium')",
		id, assetType, dueDate,
	)
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return id
}

// seedAssignedTask inserts a task with an assignee and status.
func seedAssignedTask(t *testing.T, db *sql.DB, id, assigneeID, status, dueDate string) string {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO tasks (id, location, assignee_id, due_date, type, status, priority) VALUES (?, 'Plant Room', ?, ?, 'Planned Maintenance', ?, 'Medium')",
		id, assigneeID, dueDate, status,
	)
	if err != nil {
		t.Fatalf("failed to seed assigned task: %v", err)
	}
	return id
}
