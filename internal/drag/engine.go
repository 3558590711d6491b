// Package drag converts pointer gestures into candidate date ranges. The
// engine is a synchronous, single-session state machine: rendering feeds it
// pixel positions and the measured column width, and it answers with snapped
// candidate ranges. It never touches the network or the store.
package drag

import (
	"math"

	"github.com/example/resource-planner/internal/dateutil"
)

// CommitThresholdPx is the minimum net pointer displacement for a release to
// count as a drag rather than a click.
const CommitThresholdPx = 5.0

// Kind identifies what the gesture moves.
type Kind string

const (
	// KindMove shifts the whole range, preserving duration.
	KindMove Kind = "move"
	// KindResizeStart shifts only the range start.
	KindResizeStart Kind = "resize_start"
	// KindResizeEnd shifts only the range end.
	KindResizeEnd Kind = "resize_end"
	// KindMilestoneMove shifts a single-day range.
	KindMilestoneMove Kind = "milestone_move"
)

// State is the engine's lifecycle position.
type State string

const (
	// StateIdle means no gesture is in progress.
	StateIdle State = "idle"
	// StateDragging means a gesture has begun and tracking is live.
	StateDragging State = "dragging"
)

// Commit is the validated outcome of a released drag.
type Commit struct {
	Kind  Kind
	Range dateutil.Range
}

// Engine tracks one drag gesture at a time.
type Engine struct {
	state       State
	kind        Kind
	original    dateutil.Range
	originX     float64
	columnWidth float64
	granularity dateutil.Granularity

	candidate    dateutil.Range
	hasCandidate bool
}

// NewEngine returns an idle engine.
func NewEngine() *Engine {
	return &Engine{state: StateIdle}
}

// State reports the current lifecycle position.
func (e *Engine) State() State {
	if e == nil {
		return StateIdle
	}
	return e.state
}

// Begin starts tracking a gesture. The column width is the measured pixel
// width of one granularity unit in the rendered grid; a non-positive width
// degrades every subsequent track to a no-op.
func (e *Engine) Begin(kind Kind, original dateutil.Range, pointerX, columnWidth float64, g dateutil.Granularity) {
	if e == nil {
		return
	}
	e.state = StateDragging
	e.kind = kind
	e.original = original
	e.originX = pointerX
	e.columnWidth = columnWidth
	e.granularity = g
	e.candidate = original
	e.hasCandidate = false
}

// Track updates the candidate range for the current pointer position and
// returns it together with its validity. Invalid candidates (inverted ranges
// after a resize, degenerate column width) leave the original range as the
// reported value.
func (e *Engine) Track(pointerX float64) (dateutil.Range, bool) {
	if e == nil || e.state != StateDragging {
		return dateutil.Range{}, false
	}

	if e.columnWidth <= 0 {
		e.candidate = e.original
		e.hasCandidate = false
		return e.original, false
	}

	offset := int(math.Round((pointerX - e.originX) / e.columnWidth))
	candidate, ok := e.transform(offset)
	if !ok {
		e.candidate = e.original
		e.hasCandidate = false
		return e.original, false
	}

	e.candidate = candidate
	e.hasCandidate = true
	return candidate, true
}

// Release ends the gesture. A commit is emitted only when the net pointer
// displacement exceeds the click threshold, a valid candidate exists, and
// the candidate actually differs from the original range. The engine always
// returns to idle.
func (e *Engine) Release(pointerX float64) (Commit, bool) {
	if e == nil || e.state != StateDragging {
		return Commit{}, false
	}
	e.Track(pointerX)

	commit := Commit{}
	emitted := false
	if e.hasCandidate &&
		math.Abs(pointerX-e.originX) > CommitThresholdPx &&
		!rangesEqual(e.candidate, e.original) {
		commit = Commit{Kind: e.kind, Range: e.candidate}
		emitted = true
	}

	e.reset()
	return commit, emitted
}

// Cancel discards the gesture without emitting a commit.
func (e *Engine) Cancel() {
	if e == nil {
		return
	}
	e.reset()
}

func (e *Engine) reset() {
	e.state = StateIdle
	e.kind = ""
	e.original = dateutil.Range{}
	e.candidate = dateutil.Range{}
	e.hasCandidate = false
	e.originX = 0
	e.columnWidth = 0
	e.granularity = ""
}

// transform applies the unit offset to the original range according to the
// gesture kind and snaps the result to the granularity boundary.
func (e *Engine) transform(offset int) (dateutil.Range, bool) {
	snap := func(t dateutil.Range) dateutil.Range {
		return dateutil.Range{
			Start: dateutil.Snap(t.Start, e.granularity),
			End:   dateutil.Snap(t.End, e.granularity),
		}
	}

	switch e.kind {
	case KindMove:
		candidate := dateutil.Range{
			Start: dateutil.AddUnits(e.original.Start, e.granularity, offset),
			End:   dateutil.AddUnits(e.original.End, e.granularity, offset),
		}
		candidate = snap(candidate)
		return candidate, candidate.Valid()
	case KindResizeStart:
		start := dateutil.Snap(dateutil.AddUnits(e.original.Start, e.granularity, offset), e.granularity)
		if !start.Before(e.original.End) {
			return dateutil.Range{}, false
		}
		return dateutil.Range{Start: start, End: e.original.End}, true
	case KindResizeEnd:
		end := dateutil.Snap(dateutil.AddUnits(e.original.End, e.granularity, offset), e.granularity)
		if !end.After(e.original.Start) {
			return dateutil.Range{}, false
		}
		return dateutil.Range{Start: e.original.Start, End: end}, true
	case KindMilestoneMove:
		due := dateutil.Snap(dateutil.AddUnits(e.original.Start, e.granularity, offset), e.granularity)
		return dateutil.Range{Start: due, End: due}, true
	default:
		return dateutil.Range{}, false
	}
}

func rangesEqual(a, b dateutil.Range) bool {
	return a.Start.Equal(b.Start) && a.End.Equal(b.End)
}
