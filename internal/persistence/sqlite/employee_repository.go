package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/resource-planner/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository.
type EmployeeRepository struct {
	db *DB
}

// NewEmployeeRepository wires the repository to a database handle.
func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// CreateEmployee inserts a new staff member.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	query := `INSERT INTO employees (id, display_name, weekly_target, employment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.db.ExecContext(ctx, query,
		employee.ID,
		employee.DisplayName,
		nullFloat(employee.WeeklyTarget),
		employee.Employment,
		formatTime(employee.CreatedAt),
		formatTime(employee.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting employee: %w", mapError(err))
	}
	return nil
}

// GetEmployee fetches one staff member by id.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	query := `SELECT id, display_name, weekly_target, employment, created_at, updated_at
		FROM employees WHERE id = ?`
	employee, err := scanEmployee(r.db.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.Employee{}, fmt.Errorf("fetching employee: %w", mapError(err))
	}
	return employee, nil
}

// ListEmployees returns every staff member ordered by display name.
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	query := `SELECT id, display_name, weekly_target, employment, created_at, updated_at
		FROM employees ORDER BY display_name, id`
	rows, err := r.db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	employees := make([]persistence.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employees: %w", err)
	}
	return employees, nil
}

// CreateVacation inserts an absence.
func (r *EmployeeRepository) CreateVacation(ctx context.Context, vacation persistence.Vacation) error {
	query := `INSERT INTO vacations (id, employee_id, start_date, end_date, category)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.db.ExecContext(ctx, query,
		vacation.ID,
		vacation.EmployeeID,
		formatDay(vacation.StartDate),
		formatDay(vacation.EndDate),
		vacation.Category,
	)
	if err != nil {
		return fmt.Errorf("inserting vacation: %w", mapError(err))
	}
	return nil
}

// ListVacations returns the absences overlapping the window.
func (r *EmployeeRepository) ListVacations(ctx context.Context, from, to time.Time) ([]persistence.Vacation, error) {
	query := `SELECT id, employee_id, start_date, end_date, category FROM vacations
		WHERE end_date >= ? AND start_date <= ? ORDER BY start_date, id`
	rows, err := r.db.db.QueryContext(ctx, query, formatDay(from), formatDay(to))
	if err != nil {
		return nil, fmt.Errorf("listing vacations: %w", err)
	}
	defer rows.Close()

	vacations := make([]persistence.Vacation, 0)
	for rows.Next() {
		var (
			vacation           persistence.Vacation
			startDate, endDate string
		)
		if err := rows.Scan(&vacation.ID, &vacation.EmployeeID, &startDate, &endDate, &vacation.Category); err != nil {
			return nil, fmt.Errorf("scanning vacation: %w", err)
		}
		if vacation.StartDate, err = parseDay(startDate); err != nil {
			return nil, err
		}
		if vacation.EndDate, err = parseDay(endDate); err != nil {
			return nil, err
		}
		vacations = append(vacations, vacation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vacations: %w", err)
	}
	return vacations, nil
}

func scanEmployee(row rowScanner) (persistence.Employee, error) {
	var (
		employee             persistence.Employee
		weeklyTarget         sql.NullFloat64
		createdAt, updatedAt string
	)
	err := row.Scan(
		&employee.ID,
		&employee.DisplayName,
		&weeklyTarget,
		&employee.Employment,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Employee{}, err
	}
	if employee.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Employee{}, err
	}
	if employee.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Employee{}, err
	}
	employee.WeeklyTarget = floatPtr(weeklyTarget)
	return employee, nil
}
