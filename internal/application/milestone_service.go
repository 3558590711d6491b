package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/example/resource-planner/internal/dateutil"
)

// MilestoneRepository captures the persistence interactions needed by the
// milestone service.
type MilestoneRepository interface {
	CreateMilestone(ctx context.Context, milestone Milestone) error
	UpdateMilestone(ctx context.Context, milestone Milestone) error
	GetMilestone(ctx context.Context, id string) (Milestone, error)
	ListMilestones(ctx context.Context, projectID string) ([]Milestone, error)
	DeleteMilestone(ctx context.Context, id string) error
}

// MilestoneService orchestrates validation and persistence for project
// milestones. Phase milestones are unique per phase within a project.
type MilestoneService struct {
	milestones  MilestoneRepository
	projects    ProjectCatalog
	phases      PhaseCatalog
	logger      *slog.Logger
	idGenerator func() string
	now         func() time.Time
}

// NewMilestoneService wires dependencies for milestone operations.
func NewMilestoneService(milestones MilestoneRepository, projects ProjectCatalog, phases PhaseCatalog, logger *slog.Logger, idGenerator func() string, now func() time.Time) *MilestoneService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &MilestoneService{
		milestones:  milestones,
		projects:    projects,
		phases:      phases,
		logger:      defaultLogger(logger),
		idGenerator: idGenerator,
		now:         now,
	}
}

// CreateMilestone validates the request before delegating to persistence.
// Phase milestones take their title from the phase name.
func (s *MilestoneService) CreateMilestone(ctx context.Context, input MilestoneInput) (Milestone, error) {
	logger := serviceLogger(ctx, s.logger, "milestone", "create", "project_id", input.ProjectID)

	now := s.now()
	milestone := Milestone{
		ID:          s.idGenerator(),
		ProjectID:   input.ProjectID,
		Type:        input.Type,
		PhaseID:     input.PhaseID,
		Title:       strings.TrimSpace(input.Title),
		Icon:        input.Icon,
		Color:       input.Color,
		Description: input.Description,
		DueDate:     dateutil.Day(input.DueDate),
		Completed:   input.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if milestone.Completed {
		milestone.CompletedAt = &now
	}

	if err := s.validateMilestone(ctx, &milestone, ""); err != nil {
		logger.InfoContext(ctx, "milestone rejected", "error_kind", ErrorKind(err))
		return Milestone{}, err
	}
	if err := projectWritable(ctx, s.projects, milestone.ProjectID); err != nil {
		logger.InfoContext(ctx, "milestone rejected", "error_kind", ErrorKind(err))
		return Milestone{}, err
	}

	if err := s.milestones.CreateMilestone(ctx, milestone); err != nil {
		return Milestone{}, mapRepoError(err)
	}

	logger.InfoContext(ctx, "milestone created", "milestone_id", milestone.ID)
	return milestone, nil
}

// MilestoneUpdate carries partial fields for a milestone update; nil fields
// are left unchanged.
type MilestoneUpdate struct {
	Title       *string
	Icon        *string
	Color       *string
	Description *string
	DueDate     *time.Time
	Completed   *bool
}

// UpdateMilestone applies a partial update. Completing a milestone stamps
// CompletedAt; reopening clears it.
func (s *MilestoneService) UpdateMilestone(ctx context.Context, id string, upd MilestoneUpdate) (Milestone, error) {
	logger := serviceLogger(ctx, s.logger, "milestone", "update", "milestone_id", id)

	existing, err := s.milestones.GetMilestone(ctx, id)
	if err != nil {
		return Milestone{}, mapRepoError(err)
	}
	if err := projectWritable(ctx, s.projects, existing.ProjectID); err != nil {
		logger.InfoContext(ctx, "milestone update rejected", "error_kind", ErrorKind(err))
		return Milestone{}, err
	}

	updated := existing
	if upd.Title != nil {
		updated.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Icon != nil {
		updated.Icon = *upd.Icon
	}
	if upd.Color != nil {
		updated.Color = *upd.Color
	}
	if upd.Description != nil {
		updated.Description = *upd.Description
	}
	if upd.DueDate != nil {
		updated.DueDate = dateutil.Day(*upd.DueDate)
	}
	now := s.now()
	if upd.Completed != nil && *upd.Completed != existing.Completed {
		updated.Completed = *upd.Completed
		if updated.Completed {
			updated.CompletedAt = &now
		} else {
			updated.CompletedAt = nil
		}
	}
	updated.UpdatedAt = now

	if err := s.validateMilestone(ctx, &updated, existing.ID); err != nil {
		logger.InfoContext(ctx, "milestone update rejected", "error_kind", ErrorKind(err))
		return Milestone{}, err
	}

	if err := s.milestones.UpdateMilestone(ctx, updated); err != nil {
		return Milestone{}, mapRepoError(err)
	}

	logger.InfoContext(ctx, "milestone updated", "milestone_id", id)
	return updated, nil
}

// DeleteMilestone removes a milestone.
func (s *MilestoneService) DeleteMilestone(ctx context.Context, id string) error {
	logger := serviceLogger(ctx, s.logger, "milestone", "delete", "milestone_id", id)

	existing, err := s.milestones.GetMilestone(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}
	if err := projectWritable(ctx, s.projects, existing.ProjectID); err != nil {
		logger.InfoContext(ctx, "milestone delete rejected", "error_kind", ErrorKind(err))
		return err
	}

	if err := s.milestones.DeleteMilestone(ctx, id); err != nil {
		return mapRepoError(err)
	}
	logger.InfoContext(ctx, "milestone deleted", "milestone_id", id)
	return nil
}

// ListMilestones returns a project's milestones ordered by due date.
func (s *MilestoneService) ListMilestones(ctx context.Context, projectID string) ([]Milestone, error) {
	milestones, err := s.milestones.ListMilestones(ctx, projectID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return milestones, nil
}

// validateMilestone enforces the variant rules: phase milestones need an
// existing phase and stay unique per phase and project, custom milestones
// need a title. An empty phase milestone title is defaulted to the phase
// name. excludeID skips the milestone itself in the uniqueness check.
func (s *MilestoneService) validateMilestone(ctx context.Context, milestone *Milestone, excludeID string) error {
	vErr := &ValidationError{}
	if milestone.ProjectID == "" {
		vErr.add("project_id", "project is required")
	}
	if milestone.DueDate.IsZero() {
		vErr.add("due_date", "due date is required")
	}

	switch milestone.Type {
	case MilestonePhase:
		if milestone.PhaseID == nil {
			vErr.add("phase_id", "phase is required for phase milestones")
			break
		}
		phase, ok, err := s.findPhase(ctx, *milestone.PhaseID)
		if err != nil {
			return err
		}
		if !ok {
			vErr.add("phase_id", "phase does not exist")
			break
		}
		if milestone.Title == "" {
			milestone.Title = phase.Name
		}
		taken, err := s.phaseTaken(ctx, milestone.ProjectID, *milestone.PhaseID, excludeID)
		if err != nil {
			return err
		}
		if taken {
			vErr.add("phase_id", "phase already has a milestone in this project")
		}
	case MilestoneCustom:
		if milestone.Title == "" {
			vErr.add("title", "title is required")
		}
	default:
		vErr.add("type", "unknown milestone type")
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func (s *MilestoneService) findPhase(ctx context.Context, id string) (Phase, bool, error) {
	phases, err := s.phases.ListPhases(ctx)
	if err != nil {
		return Phase{}, false, err
	}
	for _, phase := range phases {
		if phase.ID == id {
			return phase, true, nil
		}
	}
	return Phase{}, false, nil
}

func (s *MilestoneService) phaseTaken(ctx context.Context, projectID, phaseID, excludeID string) (bool, error) {
	milestones, err := s.milestones.ListMilestones(ctx, projectID)
	if err != nil {
		return false, err
	}
	for _, existing := range milestones {
		if existing.ID == excludeID || existing.Type != MilestonePhase {
			continue
		}
		if existing.PhaseID != nil && *existing.PhaseID == phaseID {
			return true, nil
		}
	}
	return false, nil
}
