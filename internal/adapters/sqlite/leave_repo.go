package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/plantops/internal/core/calendar"
	"github.com/example/plantops/internal/ports/secondary"
)

// LeaveRepository implements secondary.LeaveRepository with SQLite.
type LeaveRepository struct {
	db *sql.DB
}

// NewLeaveRepository creates a new SQLite leave request repository.
func NewLeaveRepository(db *sql.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

const leaveSelectCols = "id, engineer_id, start_date, end_date, status, reason, created_at"

func scanLeave(scanner interface {
	Scan(dest ...any) error
}) (*secondary.LeaveRecord, error) {
	var (
		start     sql.NullString
		end       sql.NullString
		reason    sql.NullString
		createdAt time.Time
	)

	record := &secondary.LeaveRecord{}
	if err := scanner.Scan(&record.ID, &record.EngineerID, &start, &end, &record.Status, &reason, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if record.StartDate, err = scanDate("start_date", start); err != nil {
		return nil, err
	}
	if record.EndDate, err = scanDate("end_date", end); err != nil {
		return nil, err
	}
	record.Reason = reason.String
	record.CreatedAt = formatTimestamp(createdAt)
	return record, nil
}

// Create persists a new leave request.
func (r *LeaveRepository) Create(ctx context.Context, l *secondary.LeaveRecord) error {
	status := l.Status
	if status == "" {
		status = "pending"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO leave_requests (id, engineer_id, start_date, end_date, status, reason) VALUES (?, ?, ?, ?, ?, ?)",
		l.ID, l.EngineerID, calendar.Format(l.StartDate), calendar.Format(l.EndDate), status, nullString(l.Reason),
	)
	if err != nil {
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	return nil
}

// GetByID retrieves a leave request by its ID.
func (r *LeaveRepository) GetByID(ctx context.Context, id string) (*secondary.LeaveRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+leaveSelectCols+" FROM leave_requests WHERE id = ?",
		id,
	)

	record, err := scanLeave(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("leave request %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get leave request: %w", err)
	}
	return record, nil
}

// List retrieves leave requests matching the given filters.
func (r *LeaveRepository) List(ctx context.Context, filters secondary.LeaveFilters) ([]*secondary.LeaveRecord, error) {
	query := "SELECT " + leaveSelectCols + " FROM leave_requests WHERE 1=1"
	args := []any{}

	if filters.EngineerID != "" {
		query += " AND engineer_id = ?"
		args = append(args, filters.EngineerID)
	}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY start_date ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var leave []*secondary.LeaveRecord
	for rows.Next() {
		record, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		leave = append(leave, record)
	}

	return leave, rows.Err()
}

// UpdateStatus sets the approval status of a leave request.
func (r *LeaveRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE leave_requests SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("leave request %s %w", id, secondary.ErrNotFound)
	}
	return nil
}

// GetNextID returns the next available leave request ID.
func (r *LeaveRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 7) AS INTEGER)), 0) FROM leave_requests",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next leave request ID: %w", err)
	}

	return fmt.Sprintf("LEAVE-%03d", maxID+1), nil
}

// Ensure LeaveRepository implements the interface
var _ secondary.LeaveRepository = (*LeaveRepository)(nil)
