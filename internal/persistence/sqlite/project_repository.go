package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/resource-planner/internal/persistence"
)

// ProjectRepository implements persistence.ProjectRepository.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository wires the repository to a database handle.
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// CreateProject inserts a new project.
func (r *ProjectRepository) CreateProject(ctx context.Context, project persistence.Project) error {
	query := `INSERT INTO projects (id, name, color, client, budget_hours, archived, locked, current_phase_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.db.ExecContext(ctx, query,
		project.ID,
		project.Name,
		project.Color,
		nullString(project.Client),
		nullFloat(project.BudgetHours),
		boolInt(project.Archived),
		boolInt(project.Locked),
		nullString(project.CurrentPhaseID),
		formatTime(project.CreatedAt),
		formatTime(project.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", mapError(err))
	}
	return nil
}

// UpdateProject rewrites an existing project.
func (r *ProjectRepository) UpdateProject(ctx context.Context, project persistence.Project) error {
	query := `UPDATE projects
		SET name = ?, color = ?, client = ?, budget_hours = ?, archived = ?, locked = ?, current_phase_id = ?, updated_at = ?
		WHERE id = ?`
	result, err := r.db.db.ExecContext(ctx, query,
		project.Name,
		project.Color,
		nullString(project.Client),
		nullFloat(project.BudgetHours),
		boolInt(project.Archived),
		boolInt(project.Locked),
		nullString(project.CurrentPhaseID),
		formatTime(project.UpdatedAt),
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetProject fetches one project by id.
func (r *ProjectRepository) GetProject(ctx context.Context, id string) (persistence.Project, error) {
	query := `SELECT id, name, color, client, budget_hours, archived, locked, current_phase_id, created_at, updated_at
		FROM projects WHERE id = ?`
	project, err := scanProject(r.db.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.Project{}, fmt.Errorf("fetching project: %w", mapError(err))
	}
	return project, nil
}

// ListProjects returns projects ordered by name, skipping archived ones
// unless asked for.
func (r *ProjectRepository) ListProjects(ctx context.Context, includeArchived bool) ([]persistence.Project, error) {
	query := `SELECT id, name, color, client, budget_hours, archived, locked, current_phase_id, created_at, updated_at
		FROM projects`
	if !includeArchived {
		query += " WHERE archived = 0"
	}
	query += " ORDER BY name, id"

	rows, err := r.db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := make([]persistence.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// ListPhases returns the company phase list in display order.
func (r *ProjectRepository) ListPhases(ctx context.Context) ([]persistence.Phase, error) {
	query := `SELECT id, name, color, position FROM phases ORDER BY position, id`
	rows, err := r.db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}
	defer rows.Close()

	phases := make([]persistence.Phase, 0)
	for rows.Next() {
		var phase persistence.Phase
		if err := rows.Scan(&phase.ID, &phase.Name, &phase.Color, &phase.Position); err != nil {
			return nil, fmt.Errorf("scanning phase: %w", err)
		}
		phases = append(phases, phase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phases: %w", err)
	}
	return phases, nil
}

func scanProject(row rowScanner) (persistence.Project, error) {
	var (
		project              persistence.Project
		client               sql.NullString
		budgetHours          sql.NullFloat64
		archived, locked     int
		currentPhaseID       sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Color,
		&client,
		&budgetHours,
		&archived,
		&locked,
		&currentPhaseID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Project{}, err
	}
	if project.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Project{}, err
	}
	if project.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Project{}, err
	}
	project.Client = stringPtr(client)
	project.BudgetHours = floatPtr(budgetHours)
	project.Archived = archived != 0
	project.Locked = locked != 0
	project.CurrentPhaseID = stringPtr(currentPhaseID)
	return project, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
