// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/plantops/internal/core/calendar"
	"github.com/example/plantops/internal/core/task"
	"github.com/example/plantops/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository with SQLite.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// scanTask scans a task row into a TaskRecord.
func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*secondary.TaskRecord, error) {
	var (
		assetID        sql.NullString
		assetType      sql.NullString
		assigneeID     sql.NullString
		dueDate        sql.NullString
		notes          sql.NullString
		completionDate sql.NullString
		createdAt      time.Time
		updatedAt      time.Time
	)

	record := &secondary.TaskRecord{}
	err := scanner.Scan(
		&record.ID, &record.Location, &assetID, &assetType, &assigneeID, &dueDate,
		&record.Type, &record.Status, &record.Priority, &notes, &completionDate,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.AssetID = assetID.String
	record.AssetType = assetType.String
	record.AssigneeID = assigneeID.String
	record.Notes = notes.String
	record.CreatedAt = formatTimestamp(createdAt)
	record.UpdatedAt = formatTimestamp(updatedAt)

	if record.DueDate, err = scanDate("due_date", dueDate); err != nil {
		return nil, err
	}
	if record.CompletionDate, err = scanDate("completion_date", completionDate); err != nil {
		return nil, err
	}

	return record, nil
}

const taskSelectCols = "id, location, asset_id, asset_type, assignee_id, due_date, type, status, priority, notes, completion_date, created_at, updated_at"

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*secondary.TaskRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}
	return tasks, rows.Err()
}

// Create persists a new task.
func (r *TaskRepository) Create(ctx context.Context, t *secondary.TaskRecord) error {
	status := t.Status
	if status == "" {
		status = task.StatusOpen
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, location, asset_id, asset_type, assignee_id, due_date, type, status, priority, notes, completion_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Location, nullString(t.AssetID), nullString(t.AssetType), nullString(t.AssigneeID),
		calendar.Format(t.DueDate), t.Type, status, t.Priority, nullString(t.Notes), nullDate(t.CompletionDate),
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+taskSelectCols+" FROM tasks WHERE id = ?",
		id,
	)

	record, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return record, nil
}

// List retrieves tasks matching the given filters.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	query := "SELECT " + taskSelectCols + " FROM tasks WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	if filters.AssigneeID != "" {
		query += " AND assignee_id = ?"
		args = append(args, filters.AssigneeID)
	}

	if filters.Unassigned {
		query += " AND assignee_id IS NULL"
	}

	if filters.Type != "" {
		query += " AND type = ?"
		args = append(args, filters.Type)
	}

	if !filters.DueFrom.IsZero() {
		query += " AND due_date >= ?"
		args = append(args, calendar.Format(filters.DueFrom))
	}

	if !filters.DueTo.IsZero() {
		query += " AND due_date <= ?"
		args = append(args, calendar.Format(filters.DueTo))
	}

	query += " ORDER BY due_date ASC, id ASC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	tasks, err := r.queryTasks(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetNextID returns the next available task ID.
func (r *TaskRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM tasks",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next task ID: %w", err)
	}

	return fmt.Sprintf("TASK-%03d", maxID+1), nil
}

// ListOpenUnassigned retrieves Open tasks with no assignee due within [from, to].
func (r *TaskRepository) ListOpenUnassigned(ctx context.Context, from, to time.Time) ([]*secondary.TaskRecord, error) {
	tasks, err := r.queryTasks(ctx,
		"SELECT "+taskSelectCols+" FROM tasks WHERE status = ? AND assignee_id IS NULL AND due_date >= ? AND due_date <= ? ORDER BY due_date ASC, id ASC",
		task.StatusOpen, calendar.Format(from), calendar.Format(to),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned tasks: %w", err)
	}
	return tasks, nil
}

// CountOpenByAssignee counts non-completed tasks due on date, grouped by assignee.
func (r *TaskRepository) CountOpenByAssignee(ctx context.Context, date time.Time) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT assignee_id, COUNT(*) FROM tasks WHERE assignee_id IS NOT NULL AND status != ? AND due_date = ? GROUP BY assignee_id",
		task.StatusCompleted, calendar.Format(date),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count workload: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			assigneeID string
			n          int
		)
		if err := rows.Scan(&assigneeID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan workload: %w", err)
		}
		counts[assigneeID] = n
	}
	return counts, rows.Err()
}

// Assign sets the assignee of a task that is still Open and unassigned.
func (r *TaskRepository) Assign(ctx context.Context, id, assigneeID, notes string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET assignee_id = ?, notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND assignee_id IS NULL AND status = ?",
		assigneeID, nullString(notes), id, task.StatusOpen,
	)
	if err != nil {
		return fmt.Errorf("failed to assign task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("task %s is no longer open and unassigned", id)
	}

	return nil
}

// SetAssignee overwrites the assignee and notes unconditionally.
func (r *TaskRepository) SetAssignee(ctx context.Context, id, assigneeID, notes string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET assignee_id = ?, notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		nullString(assigneeID), nullString(notes), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set task assignee: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// UpdateStatus updates status and notes; a non-zero completedOn sets the completion date.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id, status, notes string, completedOn time.Time) error {
	query := "UPDATE tasks SET status = ?, notes = ?, updated_at = CURRENT_TIMESTAMP"
	args := []any{status, nullString(notes)}

	if !completedOn.IsZero() {
		query += ", completion_date = ?"
		args = append(args, calendar.Format(completedOn))
	}

	query += " WHERE id = ?"
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// Ensure TaskRepository implements the interface
var _ secondary.TaskRepository = (*TaskRepository)(nil)
