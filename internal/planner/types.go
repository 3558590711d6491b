// Package planner derives conflict, rollover and burndown views from
// allocation state. Everything in this package is pure computation over
// snapshots supplied by the caller.
package planner

import (
	"time"

	"github.com/example/resource-planner/internal/capacity"
	"github.com/example/resource-planner/internal/dateutil"
)

// AllocationStatus is the lifecycle state of an allocation.
type AllocationStatus string

const (
	// StatusTentative marks a provisional allocation.
	StatusTentative AllocationStatus = "tentative"
	// StatusConfirmed marks a committed allocation.
	StatusConfirmed AllocationStatus = "confirmed"
	// StatusCompleted marks an allocation whose work is done.
	StatusCompleted AllocationStatus = "completed"
)

// Employee carries the attributes the detector needs.
type Employee struct {
	ID           string
	WeeklyTarget *float64
	Employment   capacity.EmploymentType
}

// Allocation is the planner-side view of a staffing assignment. Exactly one
// of HoursPerDay and TotalHours is set; LoggedHours carries the already
// recorded work for total-hours allocations.
type Allocation struct {
	ID          string
	EmployeeID  string
	ProjectID   string
	Range       dateutil.Range
	HoursPerDay *float64
	TotalHours  *float64
	LoggedHours float64
	Status      AllocationStatus
}

// EffectiveHoursOn resolves the daily rate the allocation contributes on a
// given day. Fixed-rate allocations contribute their rate uniformly;
// total-hours allocations contribute the rollover-adjusted rate for current
// and future days and the original flat rate for past days.
func (a Allocation) EffectiveHoursOn(day, today time.Time) float64 {
	if !a.Range.Contains(day) {
		return 0
	}
	if a.HoursPerDay != nil {
		return *a.HoursPerDay
	}
	if a.TotalHours == nil {
		return 0
	}
	result := Rollover(RolloverInput{
		TotalHours:  *a.TotalHours,
		Range:       a.Range,
		LoggedHours: a.LoggedHours,
		Today:       today,
	})
	return result.RateOn(day)
}

// TimeEntry is a logged unit of work consumed by burndown computation.
type TimeEntry struct {
	EmployeeID string
	ProjectID  string
	Day        time.Time
	Hours      float64
}
