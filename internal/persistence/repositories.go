package persistence

import (
	"context"
	"time"
)

// AllocationFilter narrows allocation queries to a date window, employee or
// project.
type AllocationFilter struct {
	EmployeeID string
	ProjectID  string
	From       *time.Time
	To         *time.Time
}

// AllocationRepository stores staffing allocations.
type AllocationRepository interface {
	CreateAllocation(ctx context.Context, allocation Allocation) error
	UpdateAllocation(ctx context.Context, allocation Allocation) error
	GetAllocation(ctx context.Context, id string) (Allocation, error)
	ListAllocations(ctx context.Context, filter AllocationFilter) ([]Allocation, error)
	DeleteAllocation(ctx context.Context, id string) error
}

// EmployeeRepository stores staff members and their vacations.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	CreateVacation(ctx context.Context, vacation Vacation) error
	ListVacations(ctx context.Context, from, to time.Time) ([]Vacation, error)
}

// ProjectRepository stores projects and the company phase list.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project Project) error
	UpdateProject(ctx context.Context, project Project) error
	GetProject(ctx context.Context, id string) (Project, error)
	ListProjects(ctx context.Context, includeArchived bool) ([]Project, error)
	ListPhases(ctx context.Context) ([]Phase, error)
}

// ActivityRepository stores project work-breakdown items.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity Activity) error
	UpdateActivity(ctx context.Context, activity Activity) error
	GetActivity(ctx context.Context, id string) (Activity, error)
	ListActivities(ctx context.Context, projectID string) ([]Activity, error)
	DeleteActivity(ctx context.Context, id string) error
}

// MilestoneRepository stores project deadlines.
type MilestoneRepository interface {
	CreateMilestone(ctx context.Context, milestone Milestone) error
	UpdateMilestone(ctx context.Context, milestone Milestone) error
	GetMilestone(ctx context.Context, id string) (Milestone, error)
	ListMilestones(ctx context.Context, projectID string) ([]Milestone, error)
	DeleteMilestone(ctx context.Context, id string) error
}

// TimeEntryRepository reads logged work for rollover and burndown.
type TimeEntryRepository interface {
	CreateTimeEntry(ctx context.Context, entry TimeEntry) error
	ListTimeEntries(ctx context.Context, projectID, employeeID string, from, to time.Time) ([]TimeEntry, error)
}

// SettingsRepository reads the holiday configuration.
type SettingsRepository interface {
	HolidaySetting(ctx context.Context) (HolidaySetting, error)
	SaveHolidaySetting(ctx context.Context, setting HolidaySetting) error
}
