package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/resource-planner/internal/persistence"
)

// TimeEntryRepository implements persistence.TimeEntryRepository.
type TimeEntryRepository struct {
	db *DB
}

// NewTimeEntryRepository wires the repository to a database handle.
func NewTimeEntryRepository(db *DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

// CreateTimeEntry inserts a logged unit of work.
func (r *TimeEntryRepository) CreateTimeEntry(ctx context.Context, entry persistence.TimeEntry) error {
	query := `INSERT INTO time_entries (id, employee_id, project_id, day, hours)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.db.ExecContext(ctx, query,
		entry.ID,
		entry.EmployeeID,
		entry.ProjectID,
		formatDay(entry.Day),
		entry.Hours,
	)
	if err != nil {
		return fmt.Errorf("inserting time entry: %w", mapError(err))
	}
	return nil
}

// ListTimeEntries returns logged work inside the window. Empty projectID or
// employeeID matches all.
func (r *TimeEntryRepository) ListTimeEntries(ctx context.Context, projectID, employeeID string, from, to time.Time) ([]persistence.TimeEntry, error) {
	query := `SELECT id, employee_id, project_id, day, hours FROM time_entries
		WHERE day >= ? AND day <= ?`
	args := []any{formatDay(from), formatDay(to)}
	if projectID != "" {
		query += " AND project_id = ?"
		args = append(args, projectID)
	}
	if employeeID != "" {
		query += " AND employee_id = ?"
		args = append(args, employeeID)
	}
	query += " ORDER BY day, id"

	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing time entries: %w", err)
	}
	defer rows.Close()

	entries := make([]persistence.TimeEntry, 0)
	for rows.Next() {
		var (
			entry persistence.TimeEntry
			day   string
		)
		if err := rows.Scan(&entry.ID, &entry.EmployeeID, &entry.ProjectID, &day, &entry.Hours); err != nil {
			return nil, fmt.Errorf("scanning time entry: %w", err)
		}
		if entry.Day, err = parseDay(day); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time entries: %w", err)
	}
	return entries, nil
}
