package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/resource-planner/internal/persistence"
)

// AllocationRepository implements persistence.AllocationRepository.
type AllocationRepository struct {
	db *DB
}

// NewAllocationRepository wires the repository to a database handle.
func NewAllocationRepository(db *DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

const allocationColumns = `id, employee_id, project_id, start_date, end_date,
	hours_per_day, total_hours, status, note, created_at, updated_at`

// CreateAllocation inserts a new allocation.
func (r *AllocationRepository) CreateAllocation(ctx context.Context, allocation persistence.Allocation) error {
	query := `INSERT INTO allocations (` + allocationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.db.ExecContext(ctx, query,
		allocation.ID,
		allocation.EmployeeID,
		allocation.ProjectID,
		formatDay(allocation.StartDate),
		formatDay(allocation.EndDate),
		nullFloat(allocation.HoursPerDay),
		nullFloat(allocation.TotalHours),
		allocation.Status,
		nullString(allocation.Note),
		formatTime(allocation.CreatedAt),
		formatTime(allocation.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting allocation: %w", mapError(err))
	}
	return nil
}

// UpdateAllocation overwrites an existing allocation.
func (r *AllocationRepository) UpdateAllocation(ctx context.Context, allocation persistence.Allocation) error {
	query := `UPDATE allocations SET employee_id = ?, project_id = ?, start_date = ?,
		end_date = ?, hours_per_day = ?, total_hours = ?, status = ?, note = ?, updated_at = ?
		WHERE id = ?`
	result, err := r.db.db.ExecContext(ctx, query,
		allocation.EmployeeID,
		allocation.ProjectID,
		formatDay(allocation.StartDate),
		formatDay(allocation.EndDate),
		nullFloat(allocation.HoursPerDay),
		nullFloat(allocation.TotalHours),
		allocation.Status,
		nullString(allocation.Note),
		formatTime(allocation.UpdatedAt),
		allocation.ID,
	)
	if err != nil {
		return fmt.Errorf("updating allocation: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating allocation: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetAllocation fetches one allocation by id.
func (r *AllocationRepository) GetAllocation(ctx context.Context, id string) (persistence.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE id = ?`
	row := r.db.db.QueryRowContext(ctx, query, id)
	allocation, err := scanAllocation(row)
	if err != nil {
		return persistence.Allocation{}, fmt.Errorf("fetching allocation: %w", mapError(err))
	}
	return allocation, nil
}

// ListAllocations returns allocations matching the filter, ordered by start
// date then id.
func (r *AllocationRepository) ListAllocations(ctx context.Context, filter persistence.AllocationFilter) ([]persistence.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE 1=1`
	args := make([]any, 0, 4)
	if filter.EmployeeID != "" {
		query += " AND employee_id = ?"
		args = append(args, filter.EmployeeID)
	}
	if filter.ProjectID != "" {
		query += " AND project_id = ?"
		args = append(args, filter.ProjectID)
	}
	if filter.From != nil {
		query += " AND end_date >= ?"
		args = append(args, formatDay(*filter.From))
	}
	if filter.To != nil {
		query += " AND start_date <= ?"
		args = append(args, formatDay(*filter.To))
	}
	query += " ORDER BY start_date, id"

	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing allocations: %w", err)
	}
	defer rows.Close()

	allocations := make([]persistence.Allocation, 0)
	for rows.Next() {
		allocation, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning allocation: %w", err)
		}
		allocations = append(allocations, allocation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating allocations: %w", err)
	}
	return allocations, nil
}

// DeleteAllocation removes an allocation by id.
func (r *AllocationRepository) DeleteAllocation(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM allocations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting allocation: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting allocation: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAllocation(row rowScanner) (persistence.Allocation, error) {
	var (
		allocation           persistence.Allocation
		startDate, endDate   string
		createdAt, updatedAt string
		hoursPerDay, total   sql.NullFloat64
		note                 sql.NullString
	)
	err := row.Scan(
		&allocation.ID,
		&allocation.EmployeeID,
		&allocation.ProjectID,
		&startDate,
		&endDate,
		&hoursPerDay,
		&total,
		&allocation.Status,
		&note,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Allocation{}, err
	}
	if allocation.StartDate, err = parseDay(startDate); err != nil {
		return persistence.Allocation{}, err
	}
	if allocation.EndDate, err = parseDay(endDate); err != nil {
		return persistence.Allocation{}, err
	}
	if allocation.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Allocation{}, err
	}
	if allocation.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Allocation{}, err
	}
	allocation.HoursPerDay = floatPtr(hoursPerDay)
	allocation.TotalHours = floatPtr(total)
	allocation.Note = stringPtr(note)
	return allocation, nil
}
