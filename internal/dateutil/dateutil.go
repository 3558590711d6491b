// Package dateutil provides calendar-day arithmetic for the planner.
//
// All planner math is calendar-day based: dates are represented as time.Time
// values normalized to midnight UTC, parsed from and rendered as ISO-8601
// YYYY-MM-DD strings. The collaborator supplying the data is responsible for
// localization; no timezone conversion happens here.
package dateutil

import (
	"errors"
	"fmt"
	"time"
)

// DayLayout is the wire format for calendar days.
const DayLayout = "2006-01-02"

// ErrInvalidRange indicates a range whose start falls after its end.
var ErrInvalidRange = errors.New("dateutil: range start is after end")

// ParseDay parses an ISO-8601 calendar day into a normalized day value.
func ParseDay(value string) (time.Time, error) {
	ts, err := time.ParseInLocation(DayLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("dateutil: parse day %q: %w", value, err)
	}
	return ts, nil
}

// FormatDay renders a day value in the ISO-8601 wire format.
func FormatDay(t time.Time) string {
	return Day(t).Format(DayLayout)
}

// Day normalizes an arbitrary instant to its calendar day at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// IsWeekend reports whether the day is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := Day(t).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange builds a normalized inclusive range, rejecting start > end.
func NewRange(start, end time.Time) (Range, error) {
	r := Range{Start: Day(start), End: Day(end)}
	if r.Start.After(r.End) {
		return Range{}, ErrInvalidRange
	}
	return r, nil
}

// Valid reports whether the range is normalized and has start <= end.
func (r Range) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && !r.Start.After(r.End)
}

// Days returns the number of calendar days covered by the inclusive range.
func (r Range) Days() int {
	if !r.Valid() {
		return 0
	}
	return int(Day(r.End).Sub(Day(r.Start)).Hours()/24) + 1
}

// Contains reports whether the day falls inside the inclusive range.
func (r Range) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Overlaps reports whether two inclusive ranges share at least one day.
func (r Range) Overlaps(other Range) bool {
	return !Day(r.Start).After(Day(other.End)) && !Day(other.Start).After(Day(r.End))
}

// Shift moves both boundaries by the same signed number of days.
func (r Range) Shift(days int) Range {
	return Range{
		Start: Day(r.Start).AddDate(0, 0, days),
		End:   Day(r.End).AddDate(0, 0, days),
	}
}

// EachDay invokes fn for every day of the range in chronological order.
func (r Range) EachDay(fn func(day time.Time)) {
	if !r.Valid() {
		return
	}
	for d := Day(r.Start); !d.After(Day(r.End)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// WorkingDays counts the non-weekend days in the inclusive range. The skip
// predicate, when non-nil, removes further days (holidays).
func WorkingDays(r Range, skip func(time.Time) bool) int {
	count := 0
	r.EachDay(func(day time.Time) {
		if IsWeekend(day) {
			return
		}
		if skip != nil && skip(day) {
			return
		}
		count++
	})
	return count
}

// Granularity is the bucket size used for display columns and drag snapping.
type Granularity string

const (
	// GranularityDay buckets by single calendar days.
	GranularityDay Granularity = "day"
	// GranularityWeek buckets by ISO weeks starting on Monday.
	GranularityWeek Granularity = "week"
	// GranularityMonth buckets by calendar months.
	GranularityMonth Granularity = "month"
)

// ParseGranularity validates a wire-format granularity value.
func ParseGranularity(value string) (Granularity, error) {
	switch Granularity(value) {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return Granularity(value), nil
	default:
		return "", fmt.Errorf("dateutil: unknown granularity %q", value)
	}
}

// Snap aligns a day to the natural boundary of the granularity: the day
// itself, the Monday of its ISO week, or the first of its month. Snapping is
// idempotent.
func Snap(t time.Time, g Granularity) time.Time {
	d := Day(t)
	switch g {
	case GranularityWeek:
		// Monday start; in Go Monday == 1, Sunday == 0.
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case GranularityMonth:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// AddUnits moves a day by n buckets of the granularity.
func AddUnits(t time.Time, g Granularity, n int) time.Time {
	d := Day(t)
	switch g {
	case GranularityWeek:
		return d.AddDate(0, 0, 7*n)
	case GranularityMonth:
		return d.AddDate(0, n, 0)
	default:
		return d.AddDate(0, 0, n)
	}
}
