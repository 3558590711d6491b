package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/example/resource-planner/internal/dateutil"
)

// ActivityRepository captures the persistence interactions needed by the
// activity service.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity Activity) error
	UpdateActivity(ctx context.Context, activity Activity) error
	GetActivity(ctx context.Context, id string) (Activity, error)
	ListActivities(ctx context.Context, projectID string) ([]Activity, error)
	DeleteActivity(ctx context.Context, id string) error
}

// PhaseCatalog exposes the company phase list.
type PhaseCatalog interface {
	ListPhases(ctx context.Context) ([]Phase, error)
}

// ActivityService orchestrates validation and persistence for project
// activities.
type ActivityService struct {
	activities  ActivityRepository
	projects    ProjectCatalog
	phases      PhaseCatalog
	logger      *slog.Logger
	idGenerator func() string
	now         func() time.Time
}

// NewActivityService wires dependencies for activity operations.
func NewActivityService(activities ActivityRepository, projects ProjectCatalog, phases PhaseCatalog, logger *slog.Logger, idGenerator func() string, now func() time.Time) *ActivityService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ActivityService{
		activities:  activities,
		projects:    projects,
		phases:      phases,
		logger:      defaultLogger(logger),
		idGenerator: idGenerator,
		now:         now,
	}
}

// CreateActivity validates the request before delegating to persistence.
func (s *ActivityService) CreateActivity(ctx context.Context, input ActivityInput) (Activity, error) {
	logger := serviceLogger(ctx, s.logger, "activity", "create", "project_id", input.ProjectID)

	now := s.now()
	activity := Activity{
		ID:         s.idGenerator(),
		ProjectID:  input.ProjectID,
		Name:       strings.TrimSpace(input.Name),
		PhaseID:    input.PhaseID,
		Category:   strings.TrimSpace(input.Category),
		AssigneeID: input.AssigneeID,
		Range:      dateutil.Range{Start: dateutil.Day(input.Start), End: dateutil.Day(input.End)},
		Status:     input.Status,
		Color:      input.Color,
		Note:       input.Note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if activity.Status == "" {
		activity.Status = ActivityNotStarted
	}

	if err := s.validateActivity(ctx, activity); err != nil {
		logger.InfoContext(ctx, "activity rejected", "error_kind", ErrorKind(err))
		return Activity{}, err
	}
	if err := s.ensureProjectWritable(ctx, activity.ProjectID); err != nil {
		logger.InfoContext(ctx, "activity rejected", "error_kind", ErrorKind(err))
		return Activity{}, err
	}

	if err := s.activities.CreateActivity(ctx, activity); err != nil {
		return Activity{}, mapRepoError(err)
	}

	logger.InfoContext(ctx, "activity created", "activity_id", activity.ID)
	return activity, nil
}

// ActivityUpdate carries partial fields for an activity update; nil fields
// are left unchanged.
type ActivityUpdate struct {
	Name       *string
	PhaseID    *string
	Category   *string
	AssigneeID *string
	Start      *time.Time
	End        *time.Time
	Status     *ActivityStatus
	Color      *string
	Note       *string
}

// UpdateActivity applies a partial update to an existing activity.
func (s *ActivityService) UpdateActivity(ctx context.Context, id string, upd ActivityUpdate) (Activity, error) {
	logger := serviceLogger(ctx, s.logger, "activity", "update", "activity_id", id)

	existing, err := s.activities.GetActivity(ctx, id)
	if err != nil {
		return Activity{}, mapRepoError(err)
	}
	if err := s.ensureProjectWritable(ctx, existing.ProjectID); err != nil {
		logger.InfoContext(ctx, "activity update rejected", "error_kind", ErrorKind(err))
		return Activity{}, err
	}

	updated := existing
	if upd.Name != nil {
		updated.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.PhaseID != nil {
		updated.PhaseID = upd.PhaseID
		updated.Category = ""
	}
	if upd.Category != nil {
		updated.Category = strings.TrimSpace(*upd.Category)
		updated.PhaseID = nil
	}
	if upd.AssigneeID != nil {
		updated.AssigneeID = upd.AssigneeID
	}
	if upd.Start != nil {
		updated.Range.Start = dateutil.Day(*upd.Start)
	}
	if upd.End != nil {
		updated.Range.End = dateutil.Day(*upd.End)
	}
	if upd.Status != nil {
		updated.Status = *upd.Status
	}
	if upd.Color != nil {
		updated.Color = upd.Color
	}
	if upd.Note != nil {
		updated.Note = *upd.Note
	}
	updated.UpdatedAt = s.now()

	if err := s.validateActivity(ctx, updated); err != nil {
		logger.InfoContext(ctx, "activity update rejected", "error_kind", ErrorKind(err))
		return Activity{}, err
	}

	if err := s.activities.UpdateActivity(ctx, updated); err != nil {
		return Activity{}, mapRepoError(err)
	}

	logger.InfoContext(ctx, "activity updated", "activity_id", id)
	return updated, nil
}

// DeleteActivity removes an activity.
func (s *ActivityService) DeleteActivity(ctx context.Context, id string) error {
	logger := serviceLogger(ctx, s.logger, "activity", "delete", "activity_id", id)

	existing, err := s.activities.GetActivity(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}
	if err := s.ensureProjectWritable(ctx, existing.ProjectID); err != nil {
		logger.InfoContext(ctx, "activity delete rejected", "error_kind", ErrorKind(err))
		return err
	}

	if err := s.activities.DeleteActivity(ctx, id); err != nil {
		return mapRepoError(err)
	}
	logger.InfoContext(ctx, "activity deleted", "activity_id", id)
	return nil
}

// ListActivities returns a project's activities ordered by start date.
func (s *ActivityService) ListActivities(ctx context.Context, projectID string) ([]Activity, error) {
	activities, err := s.activities.ListActivities(ctx, projectID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return activities, nil
}

func (s *ActivityService) validateActivity(ctx context.Context, activity Activity) error {
	vErr := &ValidationError{}
	if activity.ProjectID == "" {
		vErr.add("project_id", "project is required")
	}
	if activity.Name == "" {
		vErr.add("name", "name is required")
	}
	if !activity.Range.Valid() {
		vErr.add("range", "start must not be after end")
	}
	if !ValidActivityStatus(activity.Status) {
		vErr.add("status", "unknown status")
	}
	if activity.PhaseID != nil && activity.Category != "" {
		vErr.add("category", "phase and category are mutually exclusive")
	}
	if activity.PhaseID != nil {
		known, err := s.phaseExists(ctx, *activity.PhaseID)
		if err != nil {
			return err
		}
		if !known {
			vErr.add("phase_id", "phase does not exist")
		}
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func (s *ActivityService) phaseExists(ctx context.Context, id string) (bool, error) {
	phases, err := s.phases.ListPhases(ctx)
	if err != nil {
		return false, err
	}
	for _, phase := range phases {
		if phase.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *ActivityService) ensureProjectWritable(ctx context.Context, projectID string) error {
	return projectWritable(ctx, s.projects, projectID)
}
