package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/resource-planner/internal/persistence"
)

// ActivityRepository implements persistence.ActivityRepository.
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository wires the repository to a database handle.
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// CreateActivity inserts a new work-breakdown item.
func (r *ActivityRepository) CreateActivity(ctx context.Context, activity persistence.Activity) error {
	query := `INSERT INTO activities (id, project_id, name, phase_id, category, assignee_id, start_date, end_date, status, color, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.db.ExecContext(ctx, query,
		activity.ID,
		activity.ProjectID,
		activity.Name,
		nullString(activity.PhaseID),
		nullString(activity.Category),
		nullString(activity.AssigneeID),
		formatDay(activity.StartDate),
		formatDay(activity.EndDate),
		activity.Status,
		nullString(activity.Color),
		nullString(activity.Note),
		formatTime(activity.CreatedAt),
		formatTime(activity.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", mapError(err))
	}
	return nil
}

// UpdateActivity rewrites an existing work-breakdown item.
func (r *ActivityRepository) UpdateActivity(ctx context.Context, activity persistence.Activity) error {
	query := `UPDATE activities
		SET name = ?, phase_id = ?, category = ?, assignee_id = ?, start_date = ?, end_date = ?, status = ?, color = ?, note = ?, updated_at = ?
		WHERE id = ?`
	result, err := r.db.db.ExecContext(ctx, query,
		activity.Name,
		nullString(activity.PhaseID),
		nullString(activity.Category),
		nullString(activity.AssigneeID),
		formatDay(activity.StartDate),
		formatDay(activity.EndDate),
		activity.Status,
		nullString(activity.Color),
		nullString(activity.Note),
		formatTime(activity.UpdatedAt),
		activity.ID,
	)
	if err != nil {
		return fmt.Errorf("updating activity: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating activity: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetActivity fetches one work-breakdown item by id.
func (r *ActivityRepository) GetActivity(ctx context.Context, id string) (persistence.Activity, error) {
	query := `SELECT id, project_id, name, phase_id, category, assignee_id, start_date, end_date, status, color, note, created_at, updated_at
		FROM activities WHERE id = ?`
	activity, err := scanActivity(r.db.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.Activity{}, fmt.Errorf("fetching activity: %w", mapError(err))
	}
	return activity, nil
}

// ListActivities returns a project's items ordered by start date.
func (r *ActivityRepository) ListActivities(ctx context.Context, projectID string) ([]persistence.Activity, error) {
	query := `SELECT id, project_id, name, phase_id, category, assignee_id, start_date, end_date, status, color, note, created_at, updated_at
		FROM activities WHERE project_id = ? ORDER BY start_date, id`
	rows, err := r.db.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	activities := make([]persistence.Activity, 0)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return activities, nil
}

// DeleteActivity removes a work-breakdown item.
func (r *ActivityRepository) DeleteActivity(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanActivity(row rowScanner) (persistence.Activity, error) {
	var (
		activity                       persistence.Activity
		phaseID, category, assigneeID  sql.NullString
		color, note                    sql.NullString
		startDate, endDate             string
		createdAt, updatedAt           string
	)
	err := row.Scan(
		&activity.ID,
		&activity.ProjectID,
		&activity.Name,
		&phaseID,
		&category,
		&assigneeID,
		&startDate,
		&endDate,
		&activity.Status,
		&color,
		&note,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Activity{}, err
	}
	if activity.StartDate, err = parseDay(startDate); err != nil {
		return persistence.Activity{}, err
	}
	if activity.EndDate, err = parseDay(endDate); err != nil {
		return persistence.Activity{}, err
	}
	if activity.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Activity{}, err
	}
	if activity.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Activity{}, err
	}
	activity.PhaseID = stringPtr(phaseID)
	activity.Category = stringPtr(category)
	activity.AssigneeID = stringPtr(assigneeID)
	activity.Color = stringPtr(color)
	activity.Note = stringPtr(note)
	return activity, nil
}
