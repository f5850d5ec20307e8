package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/plantops/internal/core/calendar"
	"github.com/example/plantops/internal/core/parts"
	"github.com/example/plantops/internal/ports/secondary"
)

// PartsRequestRepository implements secondary.PartsRequestRepository with SQLite.
type PartsRequestRepository struct {
	db *sql.DB
}

// NewPartsRequestRepository creates a new SQLite parts request repository.
func NewPartsRequestRepository(db *sql.DB) *PartsRequestRepository {
	return &PartsRequestRepository{db: db}
}

const partsRequestSelectCols = "id, task_id, description, quantity, urgency, status, corrective_task_id, requested_date, ordered_date, received_date, installed_date, created_at"

// dateColumnFor maps a status to the column stamped when entering it.
var dateColumnFor = map[string]string{
	parts.StatusOrdered:   "ordered_date",
	parts.StatusReceived:  "received_date",
	parts.StatusInstalled: "installed_date",
}

func scanPartsRequest(scanner interface {
	Scan(dest ...any) error
}) (*secondary.PartsRequestRecord, error) {
	var (
		correctiveTaskID sql.NullString
		requested        sql.NullString
		ordered          sql.NullString
		received         sql.NullString
		installed        sql.NullString
		createdAt        time.Time
	)

	record := &secondary.PartsRequestRecord{}
	err := scanner.Scan(
		&record.ID, &record.TaskID, &record.Description, &record.Quantity, &record.Urgency, &record.Status,
		&correctiveTaskID, &requested, &ordered, &received, &installed, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.CorrectiveTaskID = correctiveTaskID.String
	record.CreatedAt = formatTimestamp(createdAt)

	if record.RequestedDate, err = scanDate("requested_date", requested); err != nil {
		return nil, err
	}
	if record.OrderedDate, err = scanDate("ordered_date", ordered); err != nil {
		return nil, err
	}
	if record.ReceivedDate, err = scanDate("received_date", received); err != nil {
		return nil, err
	}
	if record.InstalledDate, err = scanDate("installed_date", installed); err != nil {
		return nil, err
	}

	return record, nil
}

// Create persists a new parts request.
func (r *PartsRequestRepository) Create(ctx context.Context, req *secondary.PartsRequestRecord) error {
	status := req.Status
	if status == "" {
		status = parts.StatusRequested
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO parts_requests (id, task_id, description, quantity, urgency, status, corrective_task_id, requested_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.TaskID, req.Description, quantity, req.Urgency, status,
		nullString(req.CorrectiveTaskID), calendar.Format(req.RequestedDate),
	)
	if err != nil {
		return fmt.Errorf("failed to create parts request: %w", err)
	}
	return nil
}

// GetByID retrieves a parts request by its ID.
func (r *PartsRequestRepository) GetByID(ctx context.Context, id string) (*secondary.PartsRequestRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+partsRequestSelectCols+" FROM parts_requests WHERE id = ?",
		id,
	)

	record, err := scanPartsRequest(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("parts request %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get parts request: %w", err)
	}
	return record, nil
}

// List retrieves parts requests matching the given filters.
func (r *PartsRequestRepository) List(ctx context.Context, filters secondary.PartsRequestFilters) ([]*secondary.PartsRequestRecord, error) {
	query := "SELECT " + partsRequestSelectCols + " FROM parts_requests WHERE 1=1"
	args := []any{}

	if filters.TaskID != "" {
		query += " AND task_id = ?"
		args = append(args, filters.TaskID)
	}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY requested_date ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts requests: %w", err)
	}
	defer rows.Close()

	var requests []*secondary.PartsRequestRecord
	for rows.Next() {
		record, err := scanPartsRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan parts request: %w", err)
		}
		requests = append(requests, record)
	}

	return requests, rows.Err()
}

// GetNextID returns the next available parts request ID.
func (r *PartsRequestRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM parts_requests",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next parts request ID: %w", err)
	}

	return fmt.Sprintf("PART-%03d", maxID+1), nil
}

// UpdateStatus sets the status and stamps the matching date column with on.
func (r *PartsRequestRepository) UpdateStatus(ctx context.Context, id, status string, on time.Time) error {
	query := "UPDATE parts_requests SET status = ?, updated_at = CURRENT_TIMESTAMP"
	args := []any{status}

	if col, ok := dateColumnFor[status]; ok && !on.IsZero() {
		query += ", " + col + " = ?"
		args = append(args, calendar.Format(on))
	}

	query += " WHERE id = ?"
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update parts request status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("parts request %s %w", id, secondary.ErrNotFound)
	}
	return nil
}

// LinkCorrectiveTask sets corrective_task_id. It fails if a link already exists.
func (r *PartsRequestRepository) LinkCorrectiveTask(ctx context.Context, id, taskID string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE parts_requests SET corrective_task_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND corrective_task_id IS NULL",
		taskID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to link corrective task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("parts request %s not found or already linked", id)
	}
	return nil
}

// Ensure PartsRequestRepository implements the interface
var _ secondary.PartsRequestRepository = (*PartsRequestRepository)(nil)
