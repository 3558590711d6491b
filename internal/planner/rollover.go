package planner

import (
	"math"
	"time"

	"github.com/example/resource-planner/internal/dateutil"
)

// RolloverInput describes a total-hours allocation at a point in time.
type RolloverInput struct {
	TotalHours  float64
	Range       dateutil.Range
	LoggedHours float64
	Today       time.Time
}

// RolloverResult carries the derived daily rates for a total-hours
// allocation. OriginalPerDay is the flat average over the whole range, used
// for historical display of past days; AdjustedPerDay spreads the unused
// remainder over the working days left from today.
type RolloverResult struct {
	Remaining            float64
	RemainingWorkingDays int
	AdjustedPerDay       float64
	OriginalPerDay       float64
	Today                time.Time
}

// Rollover redistributes the unused budget of a total-hours allocation
// across the remaining working days.
func Rollover(in RolloverInput) RolloverResult {
	result := RolloverResult{Today: dateutil.Day(in.Today)}
	if !in.Range.Valid() || in.TotalHours <= 0 {
		return result
	}

	totalWorkingDays := dateutil.WorkingDays(in.Range, nil)
	if totalWorkingDays > 0 {
		result.OriginalPerDay = in.TotalHours / float64(totalWorkingDays)
	}

	result.Remaining = math.Max(0, in.TotalHours-in.LoggedHours)

	remainingStart := dateutil.Day(in.Today)
	if remainingStart.Before(in.Range.Start) {
		remainingStart = in.Range.Start
	}
	if remainingStart.After(in.Range.End) {
		return result
	}
	remaining := dateutil.Range{Start: remainingStart, End: in.Range.End}
	result.RemainingWorkingDays = dateutil.WorkingDays(remaining, nil)
	if result.RemainingWorkingDays > 0 {
		result.AdjustedPerDay = result.Remaining / float64(result.RemainingWorkingDays)
	}

	return result
}

// RateOn returns the daily rate to display or sum for the given day: the
// adjusted rate for today and later, the original flat rate for past days.
func (r RolloverResult) RateOn(day time.Time) float64 {
	if dateutil.Day(day).Before(r.Today) {
		return r.OriginalPerDay
	}
	return r.AdjustedPerDay
}
