package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations lists every schema change in order. Fresh installs get SchemaSQL
// directly and have all of these marked as applied.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_tasks_engineers_calendar",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_parts_requests",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_notifications_log",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "add_leave_reason",
		Up:      migrationV4,
	},
}

func ensureVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// RunMigrations executes all pending migrations
func RunMigrations(db *sql.DB) error {
	if err := ensureVersionTable(db); err != nil {
		return err
	}

	// Get current schema version
	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("running migration", slog.Int("version", migration.Version), slog.String("name", migration.Name))

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		// Record migration
		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func execAll(tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// migrationV1 creates engineers, tasks, holidays and leave_requests.
func migrationV1(tx *sql.Tx) error {
	return execAll(tx,
		`CREATE TABLE IF NOT EXISTS engineers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'Engineer',
			skills TEXT,
			email TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			location TEXT NOT NULL,
			asset_id TEXT,
			asset_type TEXT,
			assignee_id TEXT,
			due_date TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'Planned Maintenance',
			status TEXT NOT NULL CHECK(status IN ('Open', 'In Progress', 'Completed', 'Awaiting Parts', 'Parts Required', 'On Hold', 'Requires Follow-up')) DEFAULT 'Open',
			priority TEXT NOT NULL DEFAULT 'Medium',
			notes TEXT,
			completion_date TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (assignee_id) REFERENCES engineers(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status_due ON tasks(status, due_date)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id)`,
		`CREATE TABLE IF NOT EXISTS holidays (
			date TEXT PRIMARY KEY,
			label TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS leave_requests (
			id TEXT PRIMARY KEY,
			engineer_id TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('pending', 'approved', 'rejected')) DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK(end_date >= start_date),
			FOREIGN KEY (engineer_id) REFERENCES engineers(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leave_engineer ON leave_requests(engineer_id, status)`,
	)
}

// migrationV2 adds parts requests and the corrective-task immutability trigger.
func migrationV2(tx *sql.Tx) error {
	return execAll(tx,
		`CREATE TABLE IF NOT EXISTS parts_requests (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL,
			description TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1 CHECK(quantity > 0),
			urgency TEXT NOT NULL CHECK(urgency IN ('Critical', 'High', 'Medium', 'Low')) DEFAULT 'Medium',
			status TEXT NOT NULL CHECK(status IN ('Requested', 'Ordered', 'Received', 'Installed', 'Cancelled')) DEFAULT 'Requested',
			corrective_task_id TEXT,
			requested_date TEXT NOT NULL,
			ordered_date TEXT,
			received_date TEXT,
			installed_date TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (task_id) REFERENCES tasks(id),
			FOREIGN KEY (corrective_task_id) REFERENCES tasks(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_parts_requests_task ON parts_requests(task_id)`,
		`CREATE TRIGGER IF NOT EXISTS parts_requests_corrective_task_immutable
		BEFORE UPDATE OF corrective_task_id ON parts_requests
		WHEN OLD.corrective_task_id IS NOT NULL AND (NEW.corrective_task_id IS NULL OR NEW.corrective_task_id != OLD.corrective_task_id)
		BEGIN
			SELECT RAISE(ABORT, 'corrective_task_id is immutable');
		END`,
	)
}

// migrationV3 adds the in-app notification log.
func migrationV3(tx *sql.Tx) error {
	return execAll(tx,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			recipient_id TEXT,
			recipient_email TEXT,
			task_id TEXT,
			title TEXT NOT NULL,
			message TEXT,
			priority TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, created_at)`,
	)
}

// migrationV4 records why leave was requested.
func migrationV4(tx *sql.Tx) error {
	return execAll(tx, `ALTER TABLE leave_requests ADD COLUMN reason TEXT`)
}
