package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/resource-planner/internal/dateutil"
	"github.com/example/resource-planner/internal/planner"
	"github.com/example/resource-planner/internal/timeline"
)

// ActivitySource exposes activity lookups for a project.
type ActivitySource interface {
	ListActivities(ctx context.Context, projectID string) ([]Activity, error)
}

// MilestoneSource exposes milestone lookups for a project.
type MilestoneSource interface {
	ListMilestones(ctx context.Context, projectID string) ([]Milestone, error)
}

// ProjectAllocationSource exposes allocation lookups for a project.
type ProjectAllocationSource interface {
	ListProjectAllocations(ctx context.Context, projectID string) ([]Allocation, error)
}

// TimelineView is the derived rendering state of a project timeline.
type TimelineView struct {
	Project     Project
	Granularity dateutil.Granularity
	Columns     []timeline.Column
	Headers     []timeline.GroupHeader
	Activities  []Activity
	Milestones  []Milestone
	Allocations []Allocation
}

// BurndownView pairs the weekly series with the project it describes.
type BurndownView struct {
	ProjectID string
	Schedule  dateutil.Range
	Series    planner.BurndownSeries
}

// TimelineService assembles project timeline and burndown views.
type TimelineService struct {
	projects    ProjectCatalog
	activities  ActivitySource
	milestones  MilestoneSource
	allocations ProjectAllocationSource
	entries     TimeEntrySource
	logger      *slog.Logger
	now         func() time.Time
}

// NewTimelineService wires dependencies for timeline rendering.
func NewTimelineService(projects ProjectCatalog, activities ActivitySource, milestones MilestoneSource, allocations ProjectAllocationSource, entries TimeEntrySource, logger *slog.Logger, now func() time.Time) *TimelineService {
	if now == nil {
		now = time.Now
	}
	return &TimelineService{
		projects:    projects,
		activities:  activities,
		milestones:  milestones,
		allocations: allocations,
		entries:     entries,
		logger:      defaultLogger(logger),
		now:         now,
	}
}

// TimelineView builds the column grid and loads the project's activities,
// milestones and allocations for the requested window.
func (s *TimelineService) TimelineView(ctx context.Context, params TimelineViewParams) (TimelineView, error) {
	logger := serviceLogger(ctx, s.logger, "timeline", "view", "project_id", params.ProjectID)

	granularity := params.Granularity
	if granularity == "" {
		granularity = dateutil.GranularityDay
	}

	window, err := windowOf(params.From, params.To)
	if err != nil {
		return TimelineView{}, err
	}

	project, err := s.projects.GetProject(ctx, params.ProjectID)
	if err != nil {
		return TimelineView{}, mapRepoError(err)
	}

	today := dateutil.Day(s.now())
	columns := timeline.Columns(window, granularity, today)
	headers := timeline.GroupHeaders(columns, granularity)

	activities, err := s.activities.ListActivities(ctx, params.ProjectID)
	if err != nil {
		return TimelineView{}, err
	}
	milestones, err := s.milestones.ListMilestones(ctx, params.ProjectID)
	if err != nil {
		return TimelineView{}, err
	}
	allocations, err := s.allocations.ListProjectAllocations(ctx, params.ProjectID)
	if err != nil {
		return TimelineView{}, err
	}

	logger.InfoContext(ctx, "timeline assembled",
		"columns", len(columns),
		"activities", len(activities),
		"milestones", len(milestones))

	return TimelineView{
		Project:     project,
		Granularity: granularity,
		Columns:     columns,
		Headers:     headers,
		Activities:  activities,
		Milestones:  milestones,
		Allocations: allocations,
	}, nil
}

// Burndown derives the weekly planned-versus-actual series for a budgeted
// project. The second return value is false when the project carries no
// budget or has no schedule to burn against.
func (s *TimelineService) Burndown(ctx context.Context, projectID string) (BurndownView, bool, error) {
	logger := serviceLogger(ctx, s.logger, "timeline", "burndown", "project_id", projectID)

	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return BurndownView{}, false, mapRepoError(err)
	}

	schedule, ok, err := s.projectSchedule(ctx, projectID)
	if err != nil {
		return BurndownView{}, false, err
	}
	if !ok || project.BudgetHours == nil {
		return BurndownView{ProjectID: projectID}, false, nil
	}

	entries, err := s.entries.ListTimeEntries(ctx, projectID, "", schedule.Start, dateutil.Day(s.now()))
	if err != nil {
		return BurndownView{}, false, err
	}

	plannerEntries := make([]planner.TimeEntry, 0, len(entries))
	for _, entry := range entries {
		plannerEntries = append(plannerEntries, planner.TimeEntry{
			EmployeeID: entry.EmployeeID,
			ProjectID:  entry.ProjectID,
			Day:        entry.Day,
			Hours:      entry.Hours,
		})
	}

	series, ok := planner.Burndown(planner.BurndownInput{
		BudgetHours: project.BudgetHours,
		Schedule:    schedule,
		Entries:     plannerEntries,
	})
	if !ok {
		return BurndownView{ProjectID: projectID}, false, nil
	}

	logger.InfoContext(ctx, "burndown computed",
		"points", len(series.Points), "over_budget", series.OverBudget)

	return BurndownView{ProjectID: projectID, Schedule: schedule, Series: series}, true, nil
}

// projectSchedule spans the project's allocations, falling back to its
// activities when nothing is staffed yet.
func (s *TimelineService) projectSchedule(ctx context.Context, projectID string) (dateutil.Range, bool, error) {
	allocations, err := s.allocations.ListProjectAllocations(ctx, projectID)
	if err != nil {
		return dateutil.Range{}, false, err
	}
	ranges := make([]dateutil.Range, 0, len(allocations))
	for _, alloc := range allocations {
		ranges = append(ranges, alloc.Range)
	}
	if schedule, ok := spanOf(ranges); ok {
		return schedule, true, nil
	}

	activities, err := s.activities.ListActivities(ctx, projectID)
	if err != nil {
		return dateutil.Range{}, false, err
	}
	ranges = ranges[:0]
	for _, activity := range activities {
		ranges = append(ranges, activity.Range)
	}
	schedule, ok := spanOf(ranges)
	return schedule, ok, nil
}

// spanOf is the smallest range covering all given ranges.
func spanOf(ranges []dateutil.Range) (dateutil.Range, bool) {
	if len(ranges) == 0 {
		return dateutil.Range{}, false
	}
	span := ranges[0]
	for _, r := range ranges[1:] {
		if r.Start.Before(span.Start) {
			span.Start = r.Start
		}
		if r.End.After(span.End) {
			span.End = r.End
		}
	}
	return span, span.Valid()
}
