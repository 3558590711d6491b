package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/example/resource-planner/internal/capacity"
	"github.com/example/resource-planner/internal/dateutil"
	"github.com/example/resource-planner/internal/metrics"
	"github.com/example/resource-planner/internal/planner"
)

// AllocationSource exposes the read side of allocation persistence.
type AllocationSource interface {
	ListAllocations(ctx context.Context, employeeID string, from, to time.Time) ([]Allocation, error)
}

// VacationSource exposes absence lookups for a window.
type VacationSource interface {
	ListVacations(ctx context.Context, from, to time.Time) ([]Vacation, error)
}

// TimeEntrySource exposes logged work lookups. Empty projectID or employeeID
// matches all.
type TimeEntrySource interface {
	ListTimeEntries(ctx context.Context, projectID, employeeID string, from, to time.Time) ([]TimeEntry, error)
}

// HolidaySource resolves the configured holiday calendar.
type HolidaySource interface {
	HolidayCalendar(ctx context.Context) (capacity.CalendarConfig, error)
}

// PlannerService derives the planner window view: allocations, absences,
// conflicts and per-employee utilization for a date range.
type PlannerService struct {
	employees   EmployeeDirectory
	allocations AllocationSource
	vacations   VacationSource
	entries     TimeEntrySource
	holidays    HolidaySource
	cache       *ConflictCache
	logger      *slog.Logger
	now         func() time.Time
}

// NewPlannerService wires dependencies for window view computation.
func NewPlannerService(employees EmployeeDirectory, allocations AllocationSource, vacations VacationSource, entries TimeEntrySource, holidays HolidaySource, cache *ConflictCache, logger *slog.Logger, now func() time.Time) *PlannerService {
	if now == nil {
		now = time.Now
	}
	return &PlannerService{
		employees:   employees,
		allocations: allocations,
		vacations:   vacations,
		entries:     entries,
		holidays:    holidays,
		cache:       cache,
		logger:      defaultLogger(logger),
		now:         now,
	}
}

// WindowView assembles the derived planner state for a window, optionally
// narrowed to a single employee.
func (s *PlannerService) WindowView(ctx context.Context, params WindowViewParams) (WindowView, error) {
	logger := serviceLogger(ctx, s.logger, "planner", "window_view", "employee_id", params.EmployeeID)

	window, err := windowOf(params.From, params.To)
	if err != nil {
		return WindowView{}, err
	}

	employees, err := s.resolveEmployees(ctx, params.EmployeeID)
	if err != nil {
		return WindowView{}, mapRepoError(err)
	}

	allocations, err := s.allocations.ListAllocations(ctx, params.EmployeeID, window.Start, window.End)
	if err != nil {
		return WindowView{}, err
	}

	vacations, err := s.vacations.ListVacations(ctx, window.Start, window.End)
	if err != nil {
		return WindowView{}, err
	}
	if params.EmployeeID != "" {
		vacations = filterVacations(vacations, params.EmployeeID)
	}

	calendarCfg, err := s.holidays.HolidayCalendar(ctx)
	if err != nil {
		return WindowView{}, err
	}
	calendar := capacity.NewCalendar(calendarCfg)

	today := dateutil.Day(s.now())
	plannerAllocations, err := s.plannerAllocations(ctx, allocations, today)
	if err != nil {
		return WindowView{}, err
	}

	conflicts := s.detectConflicts(ctx, logger, detectParams{
		employees:   employees,
		allocations: plannerAllocations,
		window:      window,
		calendar:    calendar,
		today:       today,
		employeeID:  params.EmployeeID,
	})

	utilizations := utilizationsFor(employees, plannerAllocations, vacations, window, calendar, today)

	logger.InfoContext(ctx, "window view assembled",
		"employees", len(employees),
		"allocations", len(allocations),
		"conflicts", len(conflicts))

	return WindowView{
		Window:       window,
		Employees:    employees,
		Allocations:  allocations,
		Vacations:    vacations,
		Conflicts:    conflicts,
		Utilizations: utilizations,
	}, nil
}

type detectParams struct {
	employees   []Employee
	allocations []planner.Allocation
	window      dateutil.Range
	calendar    capacity.Calendar
	today       time.Time
	employeeID  string
}

func (s *PlannerService) detectConflicts(ctx context.Context, logger *slog.Logger, params detectParams) []planner.Conflict {
	key := conflictCacheKey(params.window, params.employeeID)
	if cached, ok := s.cache.Get(key); ok {
		metrics.IncrementConflictDetection("cache")
		return cached
	}

	plannerEmployees := make([]planner.Employee, 0, len(params.employees))
	for _, employee := range params.employees {
		plannerEmployees = append(plannerEmployees, planner.Employee{
			ID:           employee.ID,
			WeeklyTarget: employee.WeeklyTarget,
			Employment:   employee.Employment,
		})
	}

	conflicts := planner.DetectConflicts(planner.DetectInput{
		Employees:   plannerEmployees,
		Allocations: params.allocations,
		Window:      params.window,
		Calendar:    params.calendar,
		Today:       params.today,
	})
	s.cache.Store(key, conflicts)
	metrics.IncrementConflictDetection("computed")
	if len(conflicts) > 0 {
		logger.InfoContext(ctx, "conflicts detected", "count", len(conflicts))
	}
	return conflicts
}

// plannerAllocations converts to the detector's view, resolving logged hours
// for total-hours allocations so rollover uses the recorded work.
func (s *PlannerService) plannerAllocations(ctx context.Context, allocations []Allocation, today time.Time) ([]planner.Allocation, error) {
	out := make([]planner.Allocation, 0, len(allocations))
	for _, alloc := range allocations {
		converted := planner.Allocation{
			ID:          alloc.ID,
			EmployeeID:  alloc.EmployeeID,
			ProjectID:   alloc.ProjectID,
			Range:       alloc.Range,
			HoursPerDay: alloc.HoursPerDay,
			TotalHours:  alloc.TotalHours,
			Status:      alloc.Status,
		}
		if alloc.TotalHours != nil && !today.Before(alloc.Range.Start) {
			entries, err := s.entries.ListTimeEntries(ctx, alloc.ProjectID, alloc.EmployeeID, alloc.Range.Start, alloc.Range.End)
			if err != nil {
				return nil, err
			}
			for _, entry := range entries {
				converted.LoggedHours += entry.Hours
			}
		}
		out = append(out, converted)
	}
	return out, nil
}

func (s *PlannerService) resolveEmployees(ctx context.Context, employeeID string) ([]Employee, error) {
	if employeeID == "" {
		return s.employees.ListEmployees(ctx)
	}
	employee, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return []Employee{employee}, nil
}

// utilizationsFor summarizes each employee's load. Available hours are the
// daily targets over the window minus weekend, holiday and vacation days;
// allocated hours sum the effective daily rates.
func utilizationsFor(employees []Employee, allocations []planner.Allocation, vacations []Vacation, window dateutil.Range, calendar capacity.Calendar, today time.Time) []EmployeeUtilization {
	byEmployee := make(map[string][]planner.Allocation, len(employees))
	for _, alloc := range allocations {
		byEmployee[alloc.EmployeeID] = append(byEmployee[alloc.EmployeeID], alloc)
	}
	vacationDays := make(map[string]map[string]bool)
	for _, vacation := range vacations {
		days := vacationDays[vacation.EmployeeID]
		if days == nil {
			days = make(map[string]bool)
			vacationDays[vacation.EmployeeID] = days
		}
		vacation.Range.EachDay(func(day time.Time) {
			days[dateutil.FormatDay(day)] = true
		})
	}

	out := make([]EmployeeUtilization, 0, len(employees))
	for _, employee := range employees {
		util := EmployeeUtilization{EmployeeID: employee.ID}
		weekly, fixed := capacity.EffectiveWeeklyCapacity(employee.Employment, employee.WeeklyTarget)

		window.EachDay(func(day time.Time) {
			if fixed && !vacationDays[employee.ID][dateutil.FormatDay(day)] {
				util.AvailableHours += capacity.DailyTarget(day, weekly, calendar)
			}
			for _, alloc := range byEmployee[employee.ID] {
				util.AllocatedHours += alloc.EffectiveHoursOn(day, today)
			}
		})

		if util.AvailableHours > 0 {
			util.Utilization = util.AllocatedHours / util.AvailableHours
		}
		out = append(out, util)
	}
	return out
}

func filterVacations(vacations []Vacation, employeeID string) []Vacation {
	out := make([]Vacation, 0, len(vacations))
	for _, vacation := range vacations {
		if vacation.EmployeeID == employeeID {
			out = append(out, vacation)
		}
	}
	return out
}

// windowOf validates and normalizes a requested window.
func windowOf(from, to time.Time) (dateutil.Range, error) {
	vErr := &ValidationError{}
	if from.IsZero() {
		vErr.add("from", "from date is required")
	}
	if to.IsZero() {
		vErr.add("to", "to date is required")
	}
	if vErr.HasErrors() {
		return dateutil.Range{}, vErr
	}
	window, err := dateutil.NewRange(dateutil.Day(from), dateutil.Day(to))
	if err != nil {
		if errors.Is(err, dateutil.ErrInvalidRange) {
			vErr.add("to", "to date must not be before from date")
			return dateutil.Range{}, vErr
		}
		return dateutil.Range{}, err
	}
	return window, nil
}
