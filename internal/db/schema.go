package db

import "database/sql"

// SchemaSQL is the complete modern schema for fresh plantops installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository tests
// load it via GetSchemaSQL() instead of declaring their own tables, so a column
// referenced by repository code but missing here fails immediately with
// "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `go test ./internal/adapters/sqlite/...` to verify alignment
//
// Calendar dates are stored as TEXT in YYYY-MM-DD form so that range
// comparisons work lexically.
const SchemaSQL = `
-- Engineers (assignment candidates; role 'Viewer' is never assigned work)
CREATE TABLE IF NOT EXISTS engineers (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'Engineer',
	skills TEXT,
	email TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Maintenance tasks
CREATE TABLE IF NOT EXISTS tasks (
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
);

CREATE INDEX IF NOT EXISTS idx_tasks_status_due ON tasks(status, due_date);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id);

-- Holiday calendar
CREATE TABLE IF NOT EXISTS holidays (
	date TEXT PRIMARY KEY,
	label TEXT NOT NULL
);

-- Leave requests (only approved ones affect availability)
CREATE TABLE IF NOT EXISTS leave_requests (
	id TEXT PRIMARY KEY,
	engineer_id TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'approved', 'rejected')) DEFAULT 'pending',
	reason TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	CHECK(end_date >= start_date),
	FOREIGN KEY (engineer_id) REFERENCES engineers(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_leave_engineer ON leave_requests(engineer_id, status);

-- Parts requests
CREATE TABLE IF NOT EXISTS parts_requests (
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
);

CREATE INDEX IF NOT EXISTS idx_parts_requests_task ON parts_requests(task_id);

CREATE TRIGGER IF NOT EXISTS parts_requests_corrective_task_immutable
BEFORE UPDATE OF corrective_task_id ON parts_requests
WHEN OLD.corrective_task_id IS NOT NULL AND (NEW.corrective_task_id IS NULL OR NEW.corrective_task_id != OLD.corrective_task_id)
BEGIN
	SELECT RAISE(ABORT, 'corrective_task_id is immutable');
END;

-- In-app notification log
CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	recipient_id TEXT,
	recipient_email TEXT,
	task_id TEXT,
	title TEXT NOT NULL,
	message TEXT,
	priority TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, created_at);
`

// InitSchema creates the database schema or upgrades an existing one.
func InitSchema(db *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		// schema_version table exists - run any pending migrations
		return RunMigrations(db)
	}

	// Fresh install - create modern schema directly and mark every migration applied
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := ensureVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
