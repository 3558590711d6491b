// Package timeline generates the display columns shared by rendering and
// drag math. Column count and order are the single coordinate system both
// consumers rely on.
package timeline

import (
	"strconv"
	"time"

	"github.com/example/resource-planner/internal/dateutil"
)

// Column is one display bucket at the requested granularity.
type Column struct {
	Start         time.Time
	End           time.Time
	ContainsToday bool
}

// GroupHeader labels a run of columns sharing a parent period, e.g. a month
// spanning several week columns.
type GroupHeader struct {
	Label string
	Span  int
}

// Columns produces the ordered, contiguous buckets covering the range at the
// given granularity. The first column is snapped to the granularity
// boundary, so it may begin before the requested range.
func Columns(r dateutil.Range, g dateutil.Granularity, today time.Time) []Column {
	if !r.Valid() {
		return nil
	}

	todayDay := dateutil.Day(today)
	columns := make([]Column, 0, r.Days())
	for start := dateutil.Snap(r.Start, g); !start.After(r.End); start = dateutil.AddUnits(start, g, 1) {
		end := dateutil.AddUnits(start, g, 1).AddDate(0, 0, -1)
		bucket := dateutil.Range{Start: start, End: end}
		columns = append(columns, Column{
			Start:         start,
			End:           end,
			ContainsToday: bucket.Contains(todayDay),
		})
	}
	return columns
}

// GroupHeaders run-length-encodes the columns' parent period: month labels
// over day or week columns, year labels over month columns. A column belongs
// to the period containing its start day.
func GroupHeaders(columns []Column, g dateutil.Granularity) []GroupHeader {
	if len(columns) == 0 {
		return nil
	}

	label := func(c Column) string {
		if g == dateutil.GranularityMonth {
			return strconv.Itoa(c.Start.Year())
		}
		return c.Start.Month().String()
	}

	headers := make([]GroupHeader, 0, 4)
	for _, column := range columns {
		l := label(column)
		if n := len(headers); n > 0 && headers[n-1].Label == l {
			headers[n-1].Span++
			continue
		}
		headers = append(headers, GroupHeader{Label: l, Span: 1})
	}
	return headers
}
