package planner

import (
	"sort"
	"strings"
	"time"

	"github.com/example/resource-planner/internal/capacity"
	"github.com/example/resource-planner/internal/dateutil"
)

// HighSeverityThreshold marks conflicts whose combined hours exceed capacity
// by more than 20%. The 1.2 factor is a recorded product decision; severity
// exactly at the threshold is not flagged.
const HighSeverityThreshold = 1.2

// Contribution is one allocation's share of an overstaffed day.
type Contribution struct {
	AllocationID string
	ProjectID    string
	Hours        float64
}

// Conflict reports a contiguous run of days on which an employee's combined
// allocations exceed capacity. Adjacent conflicting days with an identical
// contributing project set are merged into a single record; TotalHours,
// Capacity and Severity describe the worst day of the run.
type Conflict struct {
	EmployeeID    string
	Range         dateutil.Range
	Contributions []Contribution
	TotalHours    float64
	Capacity      float64
	Severity      float64
	HighSeverity  bool
}

// DetectInput bundles the state the detector consumes.
type DetectInput struct {
	Employees   []Employee
	Allocations []Allocation
	Window      dateutil.Range
	Calendar    capacity.Calendar
	Today       time.Time
}

// DetectConflicts computes the conflicts visible in the window. Weekends,
// holidays and employees without a fixed weekly target never conflict.
func DetectConflicts(in DetectInput) []Conflict {
	if !in.Window.Valid() {
		return nil
	}

	byEmployee := make(map[string][]Allocation, len(in.Employees))
	for _, alloc := range in.Allocations {
		byEmployee[alloc.EmployeeID] = append(byEmployee[alloc.EmployeeID], alloc)
	}

	conflicts := make([]Conflict, 0)
	for _, employee := range in.Employees {
		weekly, ok := capacity.EffectiveWeeklyCapacity(employee.Employment, employee.WeeklyTarget)
		if !ok {
			continue
		}
		findings := detectForEmployee(employee.ID, weekly, byEmployee[employee.ID], in)
		conflicts = append(conflicts, groupFindings(employee.ID, findings)...)
	}
	return conflicts
}

// dayFinding is a single overstaffed day before range grouping.
type dayFinding struct {
	day           time.Time
	contributions []Contribution
	total         float64
	capacity      float64
	projectKey    string
}

func detectForEmployee(employeeID string, weekly float64, allocations []Allocation, in DetectInput) []dayFinding {
	findings := make([]dayFinding, 0)
	in.Window.EachDay(func(day time.Time) {
		dayCapacity := capacity.DailyTarget(day, weekly, in.Calendar)
		if dayCapacity <= 0 {
			return
		}

		contributions := make([]Contribution, 0, 2)
		total := 0.0
		for _, alloc := range allocations {
			hours := alloc.EffectiveHoursOn(day, in.Today)
			if hours <= 0 {
				continue
			}
			contributions = append(contributions, Contribution{
				AllocationID: alloc.ID,
				ProjectID:    alloc.ProjectID,
				Hours:        hours,
			})
			total += hours
		}
		if total <= dayCapacity {
			return
		}

		sort.Slice(contributions, func(i, j int) bool {
			if contributions[i].ProjectID == contributions[j].ProjectID {
				return contributions[i].AllocationID < contributions[j].AllocationID
			}
			return contributions[i].ProjectID < contributions[j].ProjectID
		})

		findings = append(findings, dayFinding{
			day:           day,
			contributions: contributions,
			total:         total,
			capacity:      dayCapacity,
			projectKey:    projectKey(contributions),
		})
	})
	return findings
}

// groupFindings merges calendar-adjacent findings that share a contributing
// project set into contiguous conflict ranges.
func groupFindings(employeeID string, findings []dayFinding) []Conflict {
	conflicts := make([]Conflict, 0, len(findings))
	for _, finding := range findings {
		if len(conflicts) > 0 {
			last := &conflicts[len(conflicts)-1]
			adjacent := finding.day.Equal(last.Range.End.AddDate(0, 0, 1))
			if adjacent && projectKey(last.Contributions) == finding.projectKey {
				last.Range.End = finding.day
				if severity(finding.total, finding.capacity) > last.Severity {
					last.TotalHours = finding.total
					last.Capacity = finding.capacity
					last.Contributions = finding.contributions
					last.Severity = severity(finding.total, finding.capacity)
					last.HighSeverity = last.Severity > HighSeverityThreshold
				}
				continue
			}
		}

		sev := severity(finding.total, finding.capacity)
		conflicts = append(conflicts, Conflict{
			EmployeeID:    employeeID,
			Range:         dateutil.Range{Start: finding.day, End: finding.day},
			Contributions: finding.contributions,
			TotalHours:    finding.total,
			Capacity:      finding.capacity,
			Severity:      sev,
			HighSeverity:  sev > HighSeverityThreshold,
		})
	}
	return conflicts
}

func severity(total, dayCapacity float64) float64 {
	if dayCapacity <= 0 {
		return 0
	}
	return total / dayCapacity
}

func projectKey(contributions []Contribution) string {
	ids := make([]string, 0, len(contributions))
	seen := make(map[string]struct{}, len(contributions))
	for _, c := range contributions {
		if _, ok := seen[c.ProjectID]; ok {
			continue
		}
		seen[c.ProjectID] = struct{}{}
		ids = append(ids, c.ProjectID)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}
