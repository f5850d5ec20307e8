package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/plantops/internal/core/skill"
	"github.com/example/plantops/internal/ports/secondary"
)

// EngineerRepository implements secondary.EngineerRepository with SQLite.
type EngineerRepository struct {
	db *sql.DB
}

// NewEngineerRepository creates a new SQLite engineer repository.
func NewEngineerRepository(db *sql.DB) *EngineerRepository {
	return &EngineerRepository{db: db}
}

const engineerSelectCols = "id, name, role, skills, email, created_at"

// scanEngineer scans an engineer row into an EngineerRecord.
func scanEngineer(scanner interface {
	Scan(dest ...any) error
}) (*secondary.EngineerRecord, error) {
	var (
		skills    sql.NullString
		email     sql.NullString
		createdAt time.Time
	)

	record := &secondary.EngineerRecord{}
	if err := scanner.Scan(&record.ID, &record.Name, &record.Role, &skills, &email, &createdAt); err != nil {
		return nil, err
	}

	record.Skills = skill.Parse(skills.String)
	record.Email = email.String
	record.CreatedAt = formatTimestamp(createdAt)
	return record, nil
}

// Create persists a new engineer.
func (r *EngineerRepository) Create(ctx context.Context, e *secondary.EngineerRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO engineers (id, name, role, skills, email) VALUES (?, ?, ?, ?, ?)",
		e.ID, e.Name, e.Role, nullString(skill.Join(e.Skills)), nullString(e.Email),
	)
	if err != nil {
		return fmt.Errorf("failed to create engineer: %w", err)
	}
	return nil
}

// GetByID retrieves an engineer by its ID.
func (r *EngineerRepository) GetByID(ctx context.Context, id string) (*secondary.EngineerRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+engineerSelectCols+" FROM engineers WHERE id = ?",
		id,
	)

	record, err := scanEngineer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("engineer %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get engineer: %w", err)
	}
	return record, nil
}

// List retrieves engineers matching the given filters, ordered by ID.
func (r *EngineerRepository) List(ctx context.Context, filters secondary.EngineerFilters) ([]*secondary.EngineerRecord, error) {
	query := "SELECT " + engineerSelectCols + " FROM engineers WHERE 1=1"
	args := []any{}

	if filters.Role != "" {
		query += " AND role = ?"
		args = append(args, filters.Role)
	}

	if filters.ExcludeRole != "" {
		query += " AND role != ?"
		args = append(args, filters.ExcludeRole)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list engineers: %w", err)
	}
	defer rows.Close()

	var engineers []*secondary.EngineerRecord
	for rows.Next() {
		record, err := scanEngineer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan engineer: %w", err)
		}
		engineers = append(engineers, record)
	}

	return engineers, rows.Err()
}

// GetNextID returns the next available engineer ID.
func (r *EngineerRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM engineers",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next engineer ID: %w", err)
	}

	return fmt.Sprintf("ENG-%03d", maxID+1), nil
}

// Ensure EngineerRepository implements the interface
var _ secondary.EngineerRepository = (*EngineerRepository)(nil)
