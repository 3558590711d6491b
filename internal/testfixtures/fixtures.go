package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/resource-planner/internal/application"
	"github.com/example/resource-planner/internal/capacity"
	"github.com/example/resource-planner/internal/dateutil"
	"github.com/example/resource-planner/internal/persistence"
	"github.com/example/resource-planner/internal/planner"
)

var (
	employeeCounter  uint64
	projectCounter   uint64
	allocationCounter uint64
	activityCounter  uint64
	milestoneCounter uint64
)

var referenceTime = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures. It
// falls on a Monday so week-based assertions stay readable.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDay returns the calendar day of the reference time shifted by
// offset days.
func ReferenceDay(offset int) time.Time {
	return dateutil.Day(referenceTime).AddDate(0, 0, offset)
}

// --------------------------- Employee fixtures ---------------------------

// EmployeeFixture is a deterministic employee record usable in application and
// persistence tests.
type EmployeeFixture struct {
	ID           string
	DisplayName  string
	WeeklyTarget *float64
	Employment   capacity.EmploymentType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EmployeeOption configures the generated employee fixture.
type EmployeeOption func(*EmployeeFixture)

// NewEmployeeFixture returns a deterministic salaried employee with a 37.5
// hour weekly target, with optional overrides.
func NewEmployeeFixture(opts ...EmployeeOption) EmployeeFixture {
	idx := atomic.AddUint64(&employeeCounter, 1)
	id := fmt.Sprintf("employee-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	target := 37.5
	fixture := EmployeeFixture{
		ID:           id,
		DisplayName:  fmt.Sprintf("Employee %03d", idx),
		WeeklyTarget: &target,
		Employment:   capacity.EmploymentSalaried,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEmployeeID overrides the generated employee ID.
func WithEmployeeID(id string) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.ID = id
	}
}

// WithWeeklyTarget overrides the weekly hour target. Pass a negative value to
// clear the target entirely.
func WithWeeklyTarget(hours float64) EmployeeOption {
	return func(f *EmployeeFixture) {
		if hours < 0 {
			f.WeeklyTarget = nil
			return
		}
		f.WeeklyTarget = &hours
	}
}

// WithEmployment overrides the employment type.
func WithEmployment(employment capacity.EmploymentType) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.Employment = employment
	}
}

// Application converts the fixture into the application model.
func (f EmployeeFixture) Application() application.Employee {
	return application.Employee{
		ID:           f.ID,
		DisplayName:  f.DisplayName,
		WeeklyTarget: f.WeeklyTarget,
		Employment:   f.Employment,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Record converts the fixture into the persistence model.
func (f EmployeeFixture) Record() persistence.Employee {
	return persistence.Employee{
		ID:           f.ID,
		DisplayName:  f.DisplayName,
		WeeklyTarget: f.WeeklyTarget,
		Employment:   string(f.Employment),
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// ---------------------------- Project fixtures ---------------------------

// ProjectFixture is a deterministic project record.
type ProjectFixture struct {
	ID          string
	Name        string
	Color       string
	Client      string
	BudgetHours *float64
	Archived    bool
	Locked      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectOption configures the generated project fixture.
type ProjectOption func(*ProjectFixture)

// NewProjectFixture returns a deterministic open project with optional
// overrides.
func NewProjectFixture(opts ...ProjectOption) ProjectFixture {
	idx := atomic.AddUint64(&projectCounter, 1)
	id := fmt.Sprintf("project-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := ProjectFixture{
		ID:        id,
		Name:      fmt.Sprintf("Project %03d", idx),
		Color:     "#4477aa",
		Client:    fmt.Sprintf("Client %03d", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithProjectID overrides the generated project ID.
func WithProjectID(id string) ProjectOption {
	return func(f *ProjectFixture) {
		f.ID = id
	}
}

// WithBudget sets the project hour budget.
func WithBudget(hours float64) ProjectOption {
	return func(f *ProjectFixture) {
		f.BudgetHours = &hours
	}
}

// Locked marks the project locked.
func Locked() ProjectOption {
	return func(f *ProjectFixture) {
		f.Locked = true
	}
}

// Archived marks the project archived.
func Archived() ProjectOption {
	return func(f *ProjectFixture) {
		f.Archived = true
	}
}

// Application converts the fixture into the application model.
func (f ProjectFixture) Application() application.Project {
	return application.Project{
		ID:          f.ID,
		Name:        f.Name,
		Color:       f.Color,
		Client:      f.Client,
		BudgetHours: f.BudgetHours,
		Archived:    f.Archived,
		Locked:      f.Locked,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Record converts the fixture into the persistence model.
func (f ProjectFixture) Record() persistence.Project {
	record := persistence.Project{
		ID:          f.ID,
		Name:        f.Name,
		Color:       f.Color,
		BudgetHours: f.BudgetHours,
		Archived:    f.Archived,
		Locked:      f.Locked,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
	if f.Client != "" {
		client := f.Client
		record.Client = &client
	}
	return record
}

// -------------------------- Allocation fixtures --------------------------

// AllocationFixture is a deterministic allocation record. The default covers
// one working week at four hours per day.
type AllocationFixture struct {
	ID          string
	EmployeeID  string
	ProjectID   string
	Start       time.Time
	End         time.Time
	HoursPerDay *float64
	TotalHours  *float64
	Status      planner.AllocationStatus
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AllocationOption configures the generated allocation fixture.
type AllocationOption func(*AllocationFixture)

// NewAllocationFixture returns a deterministic fixed-rate allocation spanning
// the reference week, with optional overrides.
func NewAllocationFixture(employeeID, projectID string, opts ...AllocationOption) AllocationFixture {
	idx := atomic.AddUint64(&allocationCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	rate := 4.0
	fixture := AllocationFixture{
		ID:          fmt.Sprintf("allocation-%03d", idx),
		EmployeeID:  employeeID,
		ProjectID:   projectID,
		Start:       ReferenceDay(0),
		End:         ReferenceDay(4),
		HoursPerDay: &rate,
		Status:      planner.StatusTentative,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAllocationID overrides the generated allocation ID.
func WithAllocationID(id string) AllocationOption {
	return func(f *AllocationFixture) {
		f.ID = id
	}
}

// WithSpan sets the allocation range as day offsets from the reference day.
func WithSpan(startOffset, endOffset int) AllocationOption {
	return func(f *AllocationFixture) {
		f.Start = ReferenceDay(startOffset)
		f.End = ReferenceDay(endOffset)
	}
}

// WithHoursPerDay switches the allocation to fixed-rate hours.
func WithHoursPerDay(hours float64) AllocationOption {
	return func(f *AllocationFixture) {
		f.HoursPerDay = &hours
		f.TotalHours = nil
	}
}

// WithTotalHours switches the allocation to a total-hour budget.
func WithTotalHours(hours float64) AllocationOption {
	return func(f *AllocationFixture) {
		f.TotalHours = &hours
		f.HoursPerDay = nil
	}
}

// WithStatus overrides the allocation status.
func WithStatus(status planner.AllocationStatus) AllocationOption {
	return func(f *AllocationFixture) {
		f.Status = status
	}
}

// Application converts the fixture into the application model.
func (f AllocationFixture) Application() application.Allocation {
	return application.Allocation{
		ID:          f.ID,
		EmployeeID:  f.EmployeeID,
		ProjectID:   f.ProjectID,
		Range:       dateutil.Range{Start: f.Start, End: f.End},
		HoursPerDay: f.HoursPerDay,
		TotalHours:  f.TotalHours,
		Status:      f.Status,
		Note:        f.Note,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Record converts the fixture into the persistence model.
func (f AllocationFixture) Record() persistence.Allocation {
	record := persistence.Allocation{
		ID:          f.ID,
		EmployeeID:  f.EmployeeID,
		ProjectID:   f.ProjectID,
		StartDate:   f.Start,
		EndDate:     f.End,
		HoursPerDay: f.HoursPerDay,
		TotalHours:  f.TotalHours,
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
	if f.Note != "" {
		note := f.Note
		record.Note = &note
	}
	return record
}

// --------------------------- Activity fixtures ---------------------------

// ActivityFixture is a deterministic activity record.
type ActivityFixture struct {
	ID        string
	ProjectID string
	Name      string
	PhaseID   *string
	Category  string
	Start     time.Time
	End       time.Time
	Status    application.ActivityStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActivityOption configures the generated activity fixture.
type ActivityOption func(*ActivityFixture)

// NewActivityFixture returns a deterministic categorized activity spanning
// the reference week, with optional overrides.
func NewActivityFixture(projectID string, opts ...ActivityOption) ActivityFixture {
	idx := atomic.AddUint64(&activityCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := ActivityFixture{
		ID:        fmt.Sprintf("activity-%03d", idx),
		ProjectID: projectID,
		Name:      fmt.Sprintf("Activity %03d", idx),
		Category:  "design",
		Start:     ReferenceDay(0),
		End:       ReferenceDay(4),
		Status:    application.ActivityNotStarted,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithActivityPhase binds the activity to a phase instead of a category.
func WithActivityPhase(phaseID string) ActivityOption {
	return func(f *ActivityFixture) {
		f.PhaseID = &phaseID
		f.Category = ""
	}
}

// WithActivitySpan sets the activity range as day offsets from the reference
// day.
func WithActivitySpan(startOffset, endOffset int) ActivityOption {
	return func(f *ActivityFixture) {
		f.Start = ReferenceDay(startOffset)
		f.End = ReferenceDay(endOffset)
	}
}

// Application converts the fixture into the application model.
func (f ActivityFixture) Application() application.Activity {
	return application.Activity{
		ID:        f.ID,
		ProjectID: f.ProjectID,
		Name:      f.Name,
		PhaseID:   f.PhaseID,
		Category:  f.Category,
		Range:     dateutil.Range{Start: f.Start, End: f.End},
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Record converts the fixture into the persistence model.
func (f ActivityFixture) Record() persistence.Activity {
	record := persistence.Activity{
		ID:        f.ID,
		ProjectID: f.ProjectID,
		Name:      f.Name,
		PhaseID:   f.PhaseID,
		StartDate: f.Start,
		EndDate:   f.End,
		Status:    string(f.Status),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	if f.Category != "" {
		category := f.Category
		record.Category = &category
	}
	return record
}

// -------------------------- Milestone fixtures ---------------------------

// MilestoneFixture is a deterministic milestone record.
type MilestoneFixture struct {
	ID        string
	ProjectID string
	Type      application.MilestoneType
	PhaseID   *string
	Title     string
	DueDate   time.Time
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MilestoneOption configures the generated milestone fixture.
type MilestoneOption func(*MilestoneFixture)

// NewMilestoneFixture returns a deterministic custom milestone due at the end
// of the reference week, with optional overrides.
func NewMilestoneFixture(projectID string, opts ...MilestoneOption) MilestoneFixture {
	idx := atomic.AddUint64(&milestoneCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := MilestoneFixture{
		ID:        fmt.Sprintf("milestone-%03d", idx),
		ProjectID: projectID,
		Type:      application.MilestoneCustom,
		Title:     fmt.Sprintf("Milestone %03d", idx),
		DueDate:   ReferenceDay(4),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithMilestonePhase turns the milestone into a phase deadline.
func WithMilestonePhase(phaseID string) MilestoneOption {
	return func(f *MilestoneFixture) {
		f.Type = application.MilestonePhase
		f.PhaseID = &phaseID
	}
}

// WithDueDate sets the due date as a day offset from the reference day.
func WithDueDate(offset int) MilestoneOption {
	return func(f *MilestoneFixture) {
		f.DueDate = ReferenceDay(offset)
	}
}

// Application converts the fixture into the application model.
func (f MilestoneFixture) Application() application.Milestone {
	return application.Milestone{
		ID:        f.ID,
		ProjectID: f.ProjectID,
		Type:      f.Type,
		PhaseID:   f.PhaseID,
		Title:     f.Title,
		DueDate:   f.DueDate,
		Completed: f.Completed,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Record converts the fixture into the persistence model.
func (f MilestoneFixture) Record() persistence.Milestone {
	return persistence.Milestone{
		ID:        f.ID,
		ProjectID: f.ProjectID,
		Type:      string(f.Type),
		PhaseID:   f.PhaseID,
		Title:     f.Title,
		DueDate:   f.DueDate,
		Completed: f.Completed,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
