package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/resource-planner/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// AllocationServiceDeps captures collaborators for an allocation service.
type AllocationServiceDeps struct {
	Store       *application.AllocationStore
	Allocations application.AllocationRepository
	Employees   application.EmployeeDirectory
	Projects    application.ProjectCatalog
	Cache       *application.ConflictCache
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewAllocationService builds an allocation service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewAllocationService(deps AllocationServiceDeps) *application.AllocationService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	store := deps.Store
	if store == nil {
		store = application.NewAllocationStore(idGen)
	}
	cache := deps.Cache
	if cache == nil {
		cache = application.NewConflictCache(time.Minute, 16, now)
	}
	return application.NewAllocationService(store, deps.Allocations, deps.Employees, deps.Projects, cache, deps.Logger, idGen, now)
}

// PlannerServiceDeps captures collaborators for a planner service.
type PlannerServiceDeps struct {
	Employees   application.EmployeeDirectory
	Allocations application.AllocationSource
	Vacations   application.VacationSource
	Entries     application.TimeEntrySource
	Holidays    application.HolidaySource
	Cache       *application.ConflictCache
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewPlannerService builds a planner service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewPlannerService(deps PlannerServiceDeps) *application.PlannerService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	cache := deps.Cache
	if cache == nil {
		cache = application.NewConflictCache(time.Minute, 16, now)
	}
	return application.NewPlannerService(deps.Employees, deps.Allocations, deps.Vacations, deps.Entries, deps.Holidays, cache, deps.Logger, now)
}

// TimelineServiceDeps captures collaborators for a timeline service.
type TimelineServiceDeps struct {
	Projects    application.ProjectCatalog
	Activities  application.ActivitySource
	Milestones  application.MilestoneSource
	Allocations application.ProjectAllocationSource
	Entries     application.TimeEntrySource
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewTimelineService builds a timeline service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewTimelineService(deps TimelineServiceDeps) *application.TimelineService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewTimelineService(deps.Projects, deps.Activities, deps.Milestones, deps.Allocations, deps.Entries, deps.Logger, now)
}

// ActivityServiceDeps captures collaborators for an activity service.
type ActivityServiceDeps struct {
	Activities  application.ActivityRepository
	Projects    application.ProjectCatalog
	Phases      application.PhaseCatalog
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewActivityService builds an activity service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewActivityService(deps ActivityServiceDeps) *application.ActivityService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewActivityService(deps.Activities, deps.Projects, deps.Phases, deps.Logger, idGen, now)
}

// MilestoneServiceDeps captures collaborators for a milestone service.
type MilestoneServiceDeps struct {
	Milestones  application.MilestoneRepository
	Projects    application.ProjectCatalog
	Phases      application.PhaseCatalog
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewMilestoneService builds a milestone service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewMilestoneService(deps MilestoneServiceDeps) *application.MilestoneService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewMilestoneService(deps.Milestones, deps.Projects, deps.Phases, deps.Logger, idGen, now)
}
