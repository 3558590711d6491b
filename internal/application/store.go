package application

import (
	"sort"
	"sync"
	"time"

	"github.com/example/resource-planner/internal/dateutil"
	"github.com/example/resource-planner/internal/planner"
)

// AllocationStore holds the allocations of the visible planning window.
// Mutations are applied optimistically and validated before any state
// change; a failed validation leaves the store untouched. Reconciliation
// with the persistence collaborator happens outside the store, which only
// offers snapshots to revert to.
type AllocationStore struct {
	mu          sync.RWMutex
	allocations map[string]Allocation
	idGenerator func() string
}

// StoreSnapshot is an immutable copy of the store state.
type StoreSnapshot struct {
	allocations map[string]Allocation
}

// MutationOutcome lists the allocations a mutation touched, for the
// reconcile step to persist.
type MutationOutcome struct {
	Upserted []Allocation
	Deleted  []string
}

// NewAllocationStore builds an empty store. The id generator mints
// identifiers for allocations created by range splits.
func NewAllocationStore(idGenerator func() string) *AllocationStore {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &AllocationStore{
		allocations: make(map[string]Allocation),
		idGenerator: idGenerator,
	}
}

// Load replaces the window contents, typically after fetching a new window
// from the collaborator.
func (s *AllocationStore) Load(allocations []Allocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocations = make(map[string]Allocation, len(allocations))
	for _, alloc := range allocations {
		s.allocations[alloc.ID] = alloc
	}
}

// Get returns the allocation with the given id.
func (s *AllocationStore) Get(id string) (Allocation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	alloc, ok := s.allocations[id]
	return alloc, ok
}

// List returns the allocations ordered by start date, then id.
func (s *AllocationStore) List() []Allocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Allocation, 0, len(s.allocations))
	for _, alloc := range s.allocations {
		out = append(out, alloc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Range.Start.Equal(out[j].Range.Start) {
			return out[i].ID < out[j].ID
		}
		return out[i].Range.Start.Before(out[j].Range.Start)
	})
	return out
}

// Snapshot copies the current state for later revert.
func (s *AllocationStore) Snapshot() StoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make(map[string]Allocation, len(s.allocations))
	for id, alloc := range s.allocations {
		copied[id] = alloc
	}
	return StoreSnapshot{allocations: copied}
}

// Restore resets the store to a previously captured snapshot.
func (s *AllocationStore) Restore(snapshot StoreSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocations = make(map[string]Allocation, len(snapshot.allocations))
	for id, alloc := range snapshot.allocations {
		s.allocations[id] = alloc
	}
}

// Create validates and inserts a new allocation.
func (s *AllocationStore) Create(alloc Allocation) (Allocation, error) {
	if err := validateAllocation(alloc); err != nil {
		return Allocation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocations[alloc.ID] = alloc
	return alloc, nil
}

// Update applies a partial update. Setting one hour mode clears the other so
// exactly one stays authoritative. The store is unchanged on any validation
// failure.
func (s *AllocationStore) Update(id string, upd AllocationUpdate, now time.Time) (Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.allocations[id]
	if !ok {
		return Allocation{}, ErrNotFound
	}

	updated, err := applyUpdate(existing, upd, now)
	if err != nil {
		return Allocation{}, err
	}
	s.allocations[id] = updated
	return updated, nil
}

// SplitOut extracts the given day of a multi-day allocation into its own
// single-day allocation, splitting the surrounding range as needed. Hours of
// a total-hours allocation are divided across the pieces in proportion to
// their working days. The returned outcome includes every touched
// allocation; the single-day piece is returned first.
func (s *AllocationStore) SplitOut(id string, date time.Time) (Allocation, MutationOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.allocations[id]
	if !ok {
		return Allocation{}, MutationOutcome{}, ErrNotFound
	}
	day := dateutil.Day(date)
	if !existing.Range.Contains(day) {
		vErr := &ValidationError{}
		vErr.add("date", "date is outside the allocation range")
		return Allocation{}, MutationOutcome{}, vErr
	}

	if existing.Range.Days() == 1 {
		return existing, MutationOutcome{Upserted: []Allocation{existing}}, nil
	}

	pieces := splitAround(existing, day)
	target := existing
	target.Range = dateutil.Range{Start: day, End: day}
	pieces = append([]dateutil.Range{target.Range}, pieces...)

	allocations := distributeHours(existing, pieces, totalHoursOf(existing))
	outcome := MutationOutcome{}
	for i, alloc := range allocations {
		if i == 0 {
			// The single-day piece keeps the original identity so callers can
			// keep addressing it.
			alloc.ID = existing.ID
		} else {
			alloc.ID = s.idGenerator()
		}
		s.allocations[alloc.ID] = alloc
		outcome.Upserted = append(outcome.Upserted, alloc)
	}
	return outcome.Upserted[0], outcome, nil
}

// DeleteOptions scope an allocation deletion.
type DeleteOptions struct {
	Date         *time.Time
	Redistribute bool
}

// Delete removes a whole allocation, or a single day of a multi-day one.
// Removing an edge day shrinks the range, removing an interior day splits
// it. With Redistribute, the removed day's hours are spread proportionally
// across the remaining days instead of being dropped.
func (s *AllocationStore) Delete(id string, opts DeleteOptions) (MutationOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.allocations[id]
	if !ok {
		return MutationOutcome{}, ErrNotFound
	}

	if opts.Date == nil || existing.Range.Days() == 1 {
		delete(s.allocations, id)
		return MutationOutcome{Deleted: []string{id}}, nil
	}

	day := dateutil.Day(*opts.Date)
	if !existing.Range.Contains(day) {
		vErr := &ValidationError{}
		vErr.add("date", "date is outside the allocation range")
		return MutationOutcome{}, vErr
	}

	pieces := splitAround(existing, day)

	keptHours := totalHoursOf(existing)
	if !opts.Redistribute {
		keptHours -= removedShare(existing, day)
	}

	allocations := distributeHours(existing, pieces, keptHours)
	outcome := MutationOutcome{}
	for i, alloc := range allocations {
		if i == 0 {
			alloc.ID = existing.ID
		} else {
			alloc.ID = s.idGenerator()
		}
		s.allocations[alloc.ID] = alloc
		outcome.Upserted = append(outcome.Upserted, alloc)
	}
	return outcome, nil
}

// BulkMove shifts every selected allocation by the same signed day delta,
// atomically: if any id is unknown or any shifted range is invalid, nothing
// moves.
func (s *AllocationStore) BulkMove(ids []string, deltaDays int, now time.Time) (MutationOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moved := make([]Allocation, 0, len(ids))
	for _, id := range ids {
		existing, ok := s.allocations[id]
		if !ok {
			return MutationOutcome{}, ErrNotFound
		}
		shifted := existing
		shifted.Range = existing.Range.Shift(deltaDays)
		if !shifted.Range.Valid() {
			vErr := &ValidationError{}
			vErr.add("range", "shift produces an invalid range")
			return MutationOutcome{}, vErr
		}
		shifted.UpdatedAt = now
		moved = append(moved, shifted)
	}

	outcome := MutationOutcome{}
	for _, alloc := range moved {
		s.allocations[alloc.ID] = alloc
		outcome.Upserted = append(outcome.Upserted, alloc)
	}
	return outcome, nil
}

// validateAllocation enforces the store invariants: a valid range and
// exactly one authoritative hour mode.
func validateAllocation(alloc Allocation) error {
	vErr := &ValidationError{}
	if alloc.EmployeeID == "" {
		vErr.add("employee_id", "employee is required")
	}
	if alloc.ProjectID == "" {
		vErr.add("project_id", "project is required")
	}
	if !alloc.Range.Valid() {
		vErr.add("range", "start must not be after end")
	}
	validateHourMode(alloc.HoursPerDay, alloc.TotalHours, vErr)
	if alloc.Status != "" && !validAllocationStatus(alloc.Status) {
		vErr.add("status", "unknown status")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func validateHourMode(hoursPerDay, totalHours *float64, vErr *ValidationError) {
	switch {
	case hoursPerDay == nil && totalHours == nil:
		vErr.add("hours", "either hours per day or total hours is required")
	case hoursPerDay != nil && totalHours != nil:
		vErr.add("hours", "hours per day and total hours are mutually exclusive")
	case hoursPerDay != nil && *hoursPerDay < 0:
		vErr.add("hours_per_day", "must not be negative")
	case totalHours != nil && *totalHours < 0:
		vErr.add("total_hours", "must not be negative")
	}
}

func validAllocationStatus(s planner.AllocationStatus) bool {
	switch s {
	case planner.StatusTentative, planner.StatusConfirmed, planner.StatusCompleted:
		return true
	default:
		return false
	}
}

func applyUpdate(existing Allocation, upd AllocationUpdate, now time.Time) (Allocation, error) {
	updated := existing
	vErr := &ValidationError{}

	if upd.Start != nil {
		updated.Range.Start = dateutil.Day(*upd.Start)
	}
	if upd.End != nil {
		updated.Range.End = dateutil.Day(*upd.End)
	}
	if !updated.Range.Valid() {
		vErr.add("range", "start must not be after end")
	}

	if upd.HoursPerDay != nil && upd.TotalHours != nil {
		vErr.add("hours", "hours per day and total hours are mutually exclusive")
	} else if upd.HoursPerDay != nil {
		if *upd.HoursPerDay < 0 {
			vErr.add("hours_per_day", "must not be negative")
		}
		updated.HoursPerDay = upd.HoursPerDay
		updated.TotalHours = nil
	} else if upd.TotalHours != nil {
		if *upd.TotalHours < 0 {
			vErr.add("total_hours", "must not be negative")
		}
		updated.TotalHours = upd.TotalHours
		updated.HoursPerDay = nil
	}

	if upd.Status != nil {
		if !validAllocationStatus(*upd.Status) {
			vErr.add("status", "unknown status")
		}
		updated.Status = *upd.Status
	}
	if upd.Note != nil {
		updated.Note = *upd.Note
	}

	if vErr.HasErrors() {
		return Allocation{}, vErr
	}
	updated.UpdatedAt = now
	return updated, nil
}

// splitAround returns the ranges remaining after removing the day: edge days
// shrink the range, interior days split it in two.
func splitAround(alloc Allocation, day time.Time) []dateutil.Range {
	r := alloc.Range
	switch {
	case day.Equal(r.Start):
		return []dateutil.Range{{Start: r.Start.AddDate(0, 0, 1), End: r.End}}
	case day.Equal(r.End):
		return []dateutil.Range{{Start: r.Start, End: r.End.AddDate(0, 0, -1)}}
	default:
		return []dateutil.Range{
			{Start: r.Start, End: day.AddDate(0, 0, -1)},
			{Start: day.AddDate(0, 0, 1), End: r.End},
		}
	}
}

// totalHoursOf expresses the allocation's full budget in hours regardless of
// mode, using working days for the fixed rate.
func totalHoursOf(alloc Allocation) float64 {
	if alloc.TotalHours != nil {
		return *alloc.TotalHours
	}
	if alloc.HoursPerDay != nil {
		return *alloc.HoursPerDay * float64(dateutil.WorkingDays(alloc.Range, nil))
	}
	return 0
}

// removedShare is the hour share of a single removed day: the flat rate for
// fixed allocations, the working-day average for total-hours ones. Weekend
// days carry no share.
func removedShare(alloc Allocation, day time.Time) float64 {
	if dateutil.IsWeekend(day) {
		return 0
	}
	if alloc.HoursPerDay != nil {
		return *alloc.HoursPerDay
	}
	if alloc.TotalHours != nil {
		if wd := dateutil.WorkingDays(alloc.Range, nil); wd > 0 {
			return *alloc.TotalHours / float64(wd)
		}
	}
	return 0
}

// distributeHours materializes allocations for the piece ranges, assigning
// hours proportionally to each piece's working days.
func distributeHours(original Allocation, pieces []dateutil.Range, hours float64) []Allocation {
	totalWorking := 0
	for _, piece := range pieces {
		totalWorking += dateutil.WorkingDays(piece, nil)
	}

	out := make([]Allocation, 0, len(pieces))
	for i, piece := range pieces {
		alloc := original
		alloc.Range = piece

		if original.TotalHours != nil {
			share := 0.0
			if totalWorking > 0 {
				share = hours * float64(dateutil.WorkingDays(piece, nil)) / float64(totalWorking)
			} else if i == 0 {
				share = hours
			}
			alloc.TotalHours = &share
			alloc.HoursPerDay = nil
		} else if original.HoursPerDay != nil {
			rate := *original.HoursPerDay
			if totalWorking > 0 {
				rate = hours / float64(totalWorking)
			}
			alloc.HoursPerDay = &rate
			alloc.TotalHours = nil
		}
		out = append(out, alloc)
	}
	return out
}
