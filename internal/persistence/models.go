package persistence

import "time"

// Employee represents a staff member stored in persistence.
type Employee struct {
	ID           string
	DisplayName  string
	WeeklyTarget *float64
	Employment   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Project represents a client project stored in persistence.
type Project struct {
	ID             string
	Name           string
	Color          string
	Client         *string
	BudgetHours    *float64
	Archived       bool
	Locked         bool
	CurrentPhaseID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Phase represents a company-wide project stage.
type Phase struct {
	ID       string
	Name     string
	Color    string
	Position int
}

// Allocation represents a staffing assignment stored in persistence. Dates
// are calendar days; exactly one of HoursPerDay and TotalHours is set.
type Allocation struct {
	ID          string
	EmployeeID  string
	ProjectID   string
	StartDate   time.Time
	EndDate     time.Time
	HoursPerDay *float64
	TotalHours  *float64
	Status      string
	Note        *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Vacation represents an absence stored in persistence.
type Vacation struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Category   string
}

// Activity represents a project work-breakdown item stored in persistence.
type Activity struct {
	ID         string
	ProjectID  string
	Name       string
	PhaseID    *string
	Category   *string
	AssigneeID *string
	StartDate  time.Time
	EndDate    time.Time
	Status     string
	Color      *string
	Note       *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Milestone represents a project deadline stored in persistence.
type Milestone struct {
	ID          string
	ProjectID   string
	Type        string
	PhaseID     *string
	Title       string
	Icon        *string
	Color       *string
	Description *string
	DueDate     time.Time
	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimeEntry represents a logged unit of work stored in persistence.
type TimeEntry struct {
	ID         string
	EmployeeID string
	ProjectID  string
	Day        time.Time
	Hours      float64
}

// HolidaySetting stores the holiday configuration: disabled default codes
// plus custom one-off or recurring holidays.
type HolidaySetting struct {
	DisabledCodes []string
	Custom        []CustomHolidayRecord
}

// CustomHolidayRecord is a stored custom holiday. A nil Year recurs yearly.
type CustomHolidayRecord struct {
	ID    string
	Name  string
	Month int
	Day   int
	Year  *int
}
