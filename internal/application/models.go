package application

import (
	"time"

	"github.com/example/resource-planner/internal/capacity"
	"github.com/example/resource-planner/internal/dateutil"
	"github.com/example/resource-planner/internal/planner"
)

// Employee represents a staff member visible to the planner.
type Employee struct {
	ID           string
	DisplayName  string
	WeeklyTarget *float64
	Employment   capacity.EmploymentType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Project represents a client project allocations and activities belong to.
// Locked or archived projects reject new work but keep historical data
// readable.
type Project struct {
	ID             string
	Name           string
	Color          string
	Client         string
	BudgetHours    *float64
	Archived       bool
	Locked         bool
	CurrentPhaseID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Phase is a company-wide, ordered project stage.
type Phase struct {
	ID       string
	Name     string
	Color    string
	Position int
}

// Allocation is a planned assignment of an employee to a project. Exactly
// one of HoursPerDay and TotalHours is authoritative at any time.
type Allocation struct {
	ID          string
	EmployeeID  string
	ProjectID   string
	Range       dateutil.Range
	HoursPerDay *float64
	TotalHours  *float64
	Status      planner.AllocationStatus
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VacationCategory classifies an absence.
type VacationCategory string

const (
	// VacationCategoryVacation is planned leave.
	VacationCategoryVacation VacationCategory = "vacation"
	// VacationCategorySick is sick leave.
	VacationCategorySick VacationCategory = "sick"
	// VacationCategoryPersonal is personal leave.
	VacationCategoryPersonal VacationCategory = "personal"
)

// Vacation is an absence reducing an employee's available capacity. It is
// informational in the planner and never conflict-checked.
type Vacation struct {
	ID         string
	EmployeeID string
	Range      dateutil.Range
	Category   VacationCategory
}

// ActivityStatus is the closed state set for project activities.
type ActivityStatus string

const (
	// ActivityNotStarted marks work not yet begun.
	ActivityNotStarted ActivityStatus = "not_started"
	// ActivityInProgress marks work underway.
	ActivityInProgress ActivityStatus = "in_progress"
	// ActivityNeedsReview marks work awaiting review.
	ActivityNeedsReview ActivityStatus = "needs_review"
	// ActivityComplete marks finished work.
	ActivityComplete ActivityStatus = "complete"
)

// ValidActivityStatus reports whether the value is one of the closed set.
func ValidActivityStatus(s ActivityStatus) bool {
	switch s {
	case ActivityNotStarted, ActivityInProgress, ActivityNeedsReview, ActivityComplete:
		return true
	default:
		return false
	}
}

// Activity is an internal work-breakdown item on a project timeline,
// distinct from staffing allocations. It references either a company phase
// or a free-text category.
type Activity struct {
	ID         string
	ProjectID  string
	Name       string
	PhaseID    *string
	Category   string
	AssigneeID *string
	Range      dateutil.Range
	Status     ActivityStatus
	Color      *string
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MilestoneType is the closed variant tag for milestones.
type MilestoneType string

const (
	// MilestonePhase ties a deadline to a company phase; at most one per
	// phase per project.
	MilestonePhase MilestoneType = "phase"
	// MilestoneCustom is a free-form milestone with its own title.
	MilestoneCustom MilestoneType = "custom"
)

// Milestone is a single-date deadline on a project timeline.
type Milestone struct {
	ID          string
	ProjectID   string
	Type        MilestoneType
	PhaseID     *string
	Title       string
	Icon        string
	Color       string
	Description string
	DueDate     time.Time
	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimeEntry is a logged unit of work, consumed for rollover and burndown.
type TimeEntry struct {
	ID         string
	EmployeeID string
	ProjectID  string
	Day        time.Time
	Hours      float64
}

// AllocationInput carries caller-provided fields for a new allocation.
type AllocationInput struct {
	EmployeeID  string
	ProjectID   string
	Start       time.Time
	End         time.Time
	HoursPerDay *float64
	TotalHours  *float64
	Status      planner.AllocationStatus
	Note        string
}

// AllocationUpdate carries partial fields for an allocation update; nil
// fields are left unchanged. Setting one hour mode clears the other.
type AllocationUpdate struct {
	Start       *time.Time
	End         *time.Time
	HoursPerDay *float64
	TotalHours  *float64
	Status      *planner.AllocationStatus
	Note        *string
}

// UpdateAllocationParams wraps an allocation update. EditDate, when set,
// scopes the update of a multi-day allocation to that single occurrence; the
// store splits the allocation around it.
type UpdateAllocationParams struct {
	AllocationID string
	Input        AllocationUpdate
	EditDate     *time.Time
}

// DeleteAllocationParams wraps an allocation deletion. Date, when set,
// removes only that occurrence; Redistribute keeps the removed day's hours
// by spreading them across the remaining days.
type DeleteAllocationParams struct {
	AllocationID string
	Date         *time.Time
	Redistribute bool
}

// BulkMoveParams shifts every selected allocation by the same day delta.
type BulkMoveParams struct {
	AllocationIDs []string
	DeltaDays     int
}

// ActivityInput carries caller-provided activity fields.
type ActivityInput struct {
	ProjectID  string
	Name       string
	PhaseID    *string
	Category   string
	AssigneeID *string
	Start      time.Time
	End        time.Time
	Status     ActivityStatus
	Color      *string
	Note       string
}

// MilestoneInput carries caller-provided milestone fields.
type MilestoneInput struct {
	ProjectID   string
	Type        MilestoneType
	PhaseID     *string
	Title       string
	Icon        string
	Color       string
	Description string
	DueDate     time.Time
	Completed   bool
}

// WindowViewParams selects the planner window to render.
type WindowViewParams struct {
	From       time.Time
	To         time.Time
	EmployeeID string
}

// EmployeeUtilization summarizes an employee's load within a window.
// AvailableHours excludes weekends, holidays and vacation days.
type EmployeeUtilization struct {
	EmployeeID     string
	AvailableHours float64
	AllocatedHours float64
	Utilization    float64
}

// WindowView is the derived planner state for a date window.
type WindowView struct {
	Window       dateutil.Range
	Employees    []Employee
	Allocations  []Allocation
	Vacations    []Vacation
	Conflicts    []planner.Conflict
	Utilizations []EmployeeUtilization
}

// TimelineViewParams selects a project timeline rendering.
type TimelineViewParams struct {
	ProjectID   string
	From        time.Time
	To          time.Time
	Granularity dateutil.Granularity
}
