package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/plantops/internal/core/calendar"
	"github.com/example/plantops/internal/ports/secondary"
)

// HolidayRepository implements secondary.HolidayRepository with SQLite.
type HolidayRepository struct {
	db *sql.DB
}

// NewHolidayRepository creates a new SQLite holiday repository.
func NewHolidayRepository(db *sql.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// Create persists a holiday.
func (r *HolidayRepository) Create(ctx context.Context, h *secondary.HolidayRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO holidays (date, label) VALUES (?, ?)",
		calendar.Format(h.Date), h.Label,
	)
	if err != nil {
		return fmt.Errorf("failed to create holiday: %w", err)
	}
	return nil
}

// Delete removes the holiday on date.
func (r *HolidayRepository) Delete(ctx context.Context, date time.Time) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM holidays WHERE date = ?", calendar.Format(date))
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("holiday %s %w", calendar.Format(date), secondary.ErrNotFound)
	}
	return nil
}

// List retrieves all holidays ordered by date.
func (r *HolidayRepository) List(ctx context.Context) ([]*secondary.HolidayRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT date, label FROM holidays ORDER BY date ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []*secondary.HolidayRecord
	for rows.Next() {
		var (
			date  sql.NullString
			label string
		)
		if err := rows.Scan(&date, &label); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		d, err := scanDate("date", date)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, &secondary.HolidayRecord{Date: d, Label: label})
	}

	return holidays, rows.Err()
}

// Ensure HolidayRepository implements the interface
var _ secondary.HolidayRepository = (*HolidayRepository)(nil)
