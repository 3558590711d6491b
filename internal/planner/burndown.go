package planner

import (
	"time"

	"github.com/example/resource-planner/internal/dateutil"
)

// BurndownInput describes a project schedule and its logged work.
type BurndownInput struct {
	BudgetHours *float64
	Schedule    dateutil.Range
	Entries     []TimeEntry
}

// BurndownPoint is one weekly bucket of the cumulative series.
type BurndownPoint struct {
	WeekStart time.Time
	Planned   float64
	Actual    float64
}

// BurndownSeries is the cumulative planned-vs-actual view of a project
// budget. OverBudget reports whether the latest actual point exceeds the
// latest planned point.
type BurndownSeries struct {
	Points     []BurndownPoint
	OverBudget bool
}

// Burndown builds weekly cumulative planned and actual hour series for a
// budgeted project. The planned line distributes the budget evenly over the
// schedule's working days. The second return value is false when the project
// has no budget; callers must treat that as "no data", not an empty series.
func Burndown(in BurndownInput) (BurndownSeries, bool) {
	if in.BudgetHours == nil || !in.Schedule.Valid() {
		return BurndownSeries{}, false
	}
	budget := *in.BudgetHours

	totalWorkingDays := dateutil.WorkingDays(in.Schedule, nil)
	perWorkingDay := 0.0
	if totalWorkingDays > 0 {
		perWorkingDay = budget / float64(totalWorkingDays)
	}

	var series BurndownSeries
	weekStart := dateutil.Snap(in.Schedule.Start, dateutil.GranularityWeek)
	lastWeek := dateutil.Snap(in.Schedule.End, dateutil.GranularityWeek)
	plannedSoFar := 0.0

	for !weekStart.After(lastWeek) {
		weekEnd := weekStart.AddDate(0, 0, 6)
		bucket := clampRange(dateutil.Range{Start: weekStart, End: weekEnd}, in.Schedule)
		if bucket.Valid() {
			plannedSoFar += float64(dateutil.WorkingDays(bucket, nil)) * perWorkingDay
		}

		series.Points = append(series.Points, BurndownPoint{
			WeekStart: weekStart,
			Planned:   plannedSoFar,
			Actual:    actualThrough(in.Entries, weekEnd),
		})
		weekStart = weekStart.AddDate(0, 0, 7)
	}

	if n := len(series.Points); n > 0 {
		last := series.Points[n-1]
		series.OverBudget = last.Actual > last.Planned
	}
	return series, true
}

func actualThrough(entries []TimeEntry, through time.Time) float64 {
	limit := dateutil.Day(through)
	total := 0.0
	for _, entry := range entries {
		if !dateutil.Day(entry.Day).After(limit) {
			total += entry.Hours
		}
	}
	return total
}

func clampRange(r, bounds dateutil.Range) dateutil.Range {
	clamped := r
	if clamped.Start.Before(bounds.Start) {
		clamped.Start = bounds.Start
	}
	if clamped.End.After(bounds.End) {
		clamped.End = bounds.End
	}
	return clamped
}
