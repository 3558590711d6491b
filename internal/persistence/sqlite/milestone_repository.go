package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/resource-planner/internal/persistence"
)

// MilestoneRepository implements persistence.MilestoneRepository.
type MilestoneRepository struct {
	db *DB
}

// NewMilestoneRepository wires the repository to a database handle.
func NewMilestoneRepository(db *DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// CreateMilestone inserts a new deadline.
func (r *MilestoneRepository) CreateMilestone(ctx context.Context, milestone persistence.Milestone) error {
	query := `INSERT INTO milestones (id, project_id, type, phase_id, title, icon, color, description, due_date, completed, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.db.ExecContext(ctx, query,
		milestone.ID,
		milestone.ProjectID,
		milestone.Type,
		nullString(milestone.PhaseID),
		milestone.Title,
		nullString(milestone.Icon),
		nullString(milestone.Color),
		nullString(milestone.Description),
		formatDay(milestone.DueDate),
		boolInt(milestone.Completed),
		nullTime(milestone.CompletedAt),
		formatTime(milestone.CreatedAt),
		formatTime(milestone.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting milestone: %w", mapError(err))
	}
	return nil
}

// UpdateMilestone rewrites an existing deadline.
func (r *MilestoneRepository) UpdateMilestone(ctx context.Context, milestone persistence.Milestone) error {
	query := `UPDATE milestones
		SET type = ?, phase_id = ?, title = ?, icon = ?, color = ?, description = ?, due_date = ?, completed = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	result, err := r.db.db.ExecContext(ctx, query,
		milestone.Type,
		nullString(milestone.PhaseID),
		milestone.Title,
		nullString(milestone.Icon),
		nullString(milestone.Color),
		nullString(milestone.Description),
		formatDay(milestone.DueDate),
		boolInt(milestone.Completed),
		nullTime(milestone.CompletedAt),
		formatTime(milestone.UpdatedAt),
		milestone.ID,
	)
	if err != nil {
		return fmt.Errorf("updating milestone: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating milestone: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetMilestone fetches one deadline by id.
func (r *MilestoneRepository) GetMilestone(ctx context.Context, id string) (persistence.Milestone, error) {
	query := `SELECT id, project_id, type, phase_id, title, icon, color, description, due_date, completed, completed_at, created_at, updated_at
		FROM milestones WHERE id = ?`
	milestone, err := scanMilestone(r.db.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.Milestone{}, fmt.Errorf("fetching milestone: %w", mapError(err))
	}
	return milestone, nil
}

// ListMilestones returns a project's deadlines ordered by due date.
func (r *MilestoneRepository) ListMilestones(ctx context.Context, projectID string) ([]persistence.Milestone, error) {
	query := `SELECT id, project_id, type, phase_id, title, icon, color, description, due_date, completed, completed_at, created_at, updated_at
		FROM milestones WHERE project_id = ? ORDER BY due_date, id`
	rows, err := r.db.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	milestones := make([]persistence.Milestone, 0)
	for rows.Next() {
		milestone, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning milestone: %w", err)
		}
		milestones = append(milestones, milestone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestones: %w", err)
	}
	return milestones, nil
}

// DeleteMilestone removes a deadline.
func (r *MilestoneRepository) DeleteMilestone(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM milestones WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting milestone: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting milestone: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanMilestone(row rowScanner) (persistence.Milestone, error) {
	var (
		milestone               persistence.Milestone
		phaseID, icon, color    sql.NullString
		description             sql.NullString
		dueDate                 string
		completed               int
		completedAt             sql.NullString
		createdAt, updatedAt    string
	)
	err := row.Scan(
		&milestone.ID,
		&milestone.ProjectID,
		&milestone.Type,
		&phaseID,
		&milestone.Title,
		&icon,
		&color,
		&description,
		&dueDate,
		&completed,
		&completedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Milestone{}, err
	}
	if milestone.DueDate, err = parseDay(dueDate); err != nil {
		return persistence.Milestone{}, err
	}
	if milestone.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Milestone{}, err
	}
	if milestone.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Milestone{}, err
	}
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return persistence.Milestone{}, err
		}
		milestone.CompletedAt = &t
	}
	milestone.PhaseID = stringPtr(phaseID)
	milestone.Icon = stringPtr(icon)
	milestone.Color = stringPtr(color)
	milestone.Description = stringPtr(description)
	milestone.Completed = completed != 0
	return milestone, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
