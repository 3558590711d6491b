// Package capacity computes expected working hours per employee and day.
package capacity

import (
	"math"
	"time"

	"github.com/example/resource-planner/internal/dateutil"
)

// EmploymentType distinguishes staff with a fixed weekly target from staff
// billed by the hour.
type EmploymentType string

const (
	// EmploymentSalaried staff carry a fixed weekly hour target.
	EmploymentSalaried EmploymentType = "salaried"
	// EmploymentHourly staff have no fixed target.
	EmploymentHourly EmploymentType = "hourly"
	// EmploymentFreelancer staff have no fixed target.
	EmploymentFreelancer EmploymentType = "freelancer"
)

// HasFixedTarget reports whether the employment type carries a weekly target.
func (t EmploymentType) HasFixedTarget() bool {
	switch t {
	case EmploymentHourly, EmploymentFreelancer:
		return false
	default:
		return true
	}
}

// DailyTarget returns the expected working hours for a single day.
//
// Weekends and enabled holidays yield 0. On regular days the weekly target is
// split unevenly: Monday through Thursday each receive the target divided by
// five rounded to the nearest half hour, Friday receives whatever remains so
// the five weekdays reproduce the weekly target exactly. The short Friday is
// a company rule, not a rounding artifact.
func DailyTarget(day time.Time, weeklyTarget float64, cal Calendar) float64 {
	if weeklyTarget <= 0 {
		return 0
	}
	if dateutil.IsWeekend(day) || cal.IsHoliday(day) {
		return 0
	}
	share := monThuShare(weeklyTarget)
	if dateutil.Day(day).Weekday() == time.Friday {
		return math.Max(0, weeklyTarget-4*share)
	}
	return share
}

// EffectiveWeeklyCapacity returns the weekly hour target for an employee. The
// second return value is false when the employment type has no fixed target
// or none is configured; callers must treat capacity as unknown rather than
// zero in that case.
func EffectiveWeeklyCapacity(employment EmploymentType, weeklyTarget *float64) (float64, bool) {
	if !employment.HasFixedTarget() || weeklyTarget == nil {
		return 0, false
	}
	return *weeklyTarget, true
}

func monThuShare(weeklyTarget float64) float64 {
	return math.Round(weeklyTarget/5*2) / 2
}
