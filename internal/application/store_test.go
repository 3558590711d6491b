package application

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/example/resource-planner/internal/dateutil"
	"github.com/example/resource-planner/internal/planner"
)

func mustDay(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := dateutil.ParseDay(value)
	if err != nil {
		t.Fatalf("failed to parse day %q: %v", value, err)
	}
	return day
}

func floatPtr(v float64) *float64 {
	return &v
}

func sequenceIDs(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return prefix + string(rune('0'+counter))
	}
}

func fixedAllocation(t *testing.T, id, start, end string, hoursPerDay float64) Allocation {
	t.Helper()
	return Allocation{
		ID:          id,
		EmployeeID:  "emp-1",
		ProjectID:   "prj-1",
		Range:       dateutil.Range{Start: mustDay(t, start), End: mustDay(t, end)},
		HoursPerDay: floatPtr(hoursPerDay),
		Status:      planner.StatusTentative,
	}
}

func totalAllocation(t *testing.T, id, start, end string, total float64) Allocation {
	t.Helper()
	return Allocation{
		ID:         id,
		EmployeeID: "emp-1",
		ProjectID:  "prj-1",
		Range:      dateutil.Range{Start: mustDay(t, start), End: mustDay(t, end)},
		TotalHours: floatPtr(total),
		Status:     planner.StatusTentative,
	}
}

func TestAllocationStore_Create_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	store := NewAllocationStore(nil)

	cases := []struct {
		name  string
		alloc Allocation
		field string
	}{
		{
			name: "inverted range",
			alloc: func() Allocation {
				a := fixedAllocation(t, "a-1", "2025-03-07", "2025-03-03", 4)
				return a
			}(),
			field: "range",
		},
		{
			name: "both hour modes set",
			alloc: func() Allocation {
				a := fixedAllocation(t, "a-1", "2025-03-03", "2025-03-07", 4)
				a.TotalHours = floatPtr(20)
				return a
			}(),
			field: "hours",
		},
		{
			name: "neither hour mode set",
			alloc: func() Allocation {
				a := fixedAllocation(t, "a-1", "2025-03-03", "2025-03-07", 4)
				a.HoursPerDay = nil
				return a
			}(),
			field: "hours",
		},
		{
			name: "negative rate",
			alloc: func() Allocation {
				a := fixedAllocation(t, "a-1", "2025-03-03", "2025-03-07", -1)
				return a
			}(),
			field: "hours_per_day",
		},
		{
			name: "unknown status",
			alloc: func() Allocation {
				a := fixedAllocation(t, "a-1", "2025-03-03", "2025-03-07", 4)
				a.Status = "paused"
				return a
			}(),
			field: "status",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Create(tc.alloc)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := vErr.FieldErrors[tc.field]; !ok {
				t.Fatalf("expected error on field %q, got %v", tc.field, vErr.FieldErrors)
			}
			if _, ok := store.Get(tc.alloc.ID); ok {
				t.Fatal("store mutated despite validation failure")
			}
		})
	}
}

func TestAllocationStore_Update_HourModeExclusivity(t *testing.T) {
	t.Parallel()

	store := NewAllocationStore(nil)
	if _, err := store.Create(fixedAllocation(t, "a-1", "2025-03-03", "2025-03-07", 4)); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}

	updated, err := store.Update("a-1", AllocationUpdate{TotalHours: floatPtr(30)}, time.Now())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.HoursPerDay != nil {
		t.Fatal("switching to total hours must clear the daily rate")
	}
	if updated.TotalHours == nil || *updated.TotalHours != 30 {
		t.Fatalf("expected total hours 30, got %v", updated.TotalHours)
	}

	updated, err = store.Update("a-1", AllocationUpdate{HoursPerDay: floatPtr(6)}, time.Now())
	if err != nil {
		t.Fatalf("update back: %v", err)
	}
	if updated.TotalHours != nil {
		t.Fatal("switching to a daily rate must clear total hours")
	}

	_, err = store.Update("a-1", AllocationUpdate{HoursPerDay: floatPtr(6), TotalHours: floatPtr(30)}, time.Now())
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for both modes, got %v", err)
	}
}

func TestAllocationStore_Delete_WholeAllocation(t *testing.T) {
	t.Parallel()

	store := NewAllocationStore(nil)
	if _, err := store.Create(fixedAllocation(t, "a-1", "2025-03-03", "2025-03-07", 4)); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}

	outcome, err := store.Delete("a-1", DeleteOptions{})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(outcome.Deleted) != 1 || outcome.Deleted[0] != "a-1" {
		t.Fatalf("expected a-1 deleted, got %v", outcome.Deleted)
	}
	if _, ok := store.Get("a-1"); ok {
		t.Fatal("allocation still present after delete")
	}
}

func TestAllocationStore_Delete_EdgeDayShrinks(t *testing.T) {
	t.Parallel()

	store := NewAllocationStore(sequenceIDs("new-"))
	if _, err := store.Create(fixedAllocation(t, "a-1", "2025-03-03", "2025-03-07", 4)); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}

	date := mustDay(t, "2025-03-03")
	outcome, err := store.Delete("a-1", DeleteOptions{Date: &date})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(outcome.Upserted) != 1 {
		t.Fatalf("expected one remaining piece, got %d", len(outcome.Upserted))
	}
	piece := outcome.Upserted[0]
	if piece.ID != "a-1" {
		t.Fatalf("shrunk piece should keep the original id, got %q", piece.ID)
	}
	if !piece.Range.Start.Equal(mustDay(t, "2025-03-04")) || !piece.Range.End.Equal(mustDay(t, "2025-03-07")) {
		t.Fatalf("unexpected remaining range %v", piece.Range)
	}
	// Removing a working day without redistribution keeps the daily rate.
	if piece.HoursPerDay == nil || *piece.HoursPerDay != 4 {
		t.Fatalf("expected rate 4, got %v", piece.HoursPerDay)
	}
}

func TestAllocationStore_Delete_InteriorDaySplits(t *testing.T) {
	t.Parallel()

	store := NewAllocationStore(sequenceIDs("new-"))
	if _, err := store.Create(totalAllocation(t, "a-1", "2025-03-03", "2025-03-07", 25)); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}

	date := mustDay(t, "2025-03-05")
	outcome, err := store.Delete("a-1", DeleteOptions{Date: &date})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(outcome.Upserted) != 2 {
		t.Fatalf("expected two pieces, got %d", len(outcome.Upserted))
	}

	// 25h over 5 working days is 5h per day; dropping Wednesday leaves 20h
	// split 10/10 over the two 2-day pieces.
	var sum float64
	for _, piece := range outcome.Upserted {
		if piece.TotalHours == nil {
			t.Fatal("pieces of a total-hours allocation must stay in total-hours mode")
		}
		sum += *piece.TotalHours
	}
	if math.Abs(sum-20) > 1e-9 {
		t.Fatalf("expected 20 hours kept, got %v", sum)
	}
}

func TestAllocationStore_Delete_RedistributeKeepsHours(t *testing.T) {
	t.Parallel()

	store := NewAllocationStore(sequenceIDs("new-"))
	if _, err := store.Create(totalAllocation(t, "a-1", "2025-03-03", "2025-03-07", 25)); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}

	date := mustDay(t, "2025-03-05")
	outcome, err := store.Delete("a-1", DeleteOptions{Date: &date, Redistribute: true})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	var sum float64
	for _, piece := range outcome.Upserted {
		sum += *piece.TotalHours
	}
	if math.Abs(sum-25) > 1e-9 {
		t.Fatalf("redistribution must conserve the 25 hours, got %v", sum)
	}
}

func TestAllocationStore_Delete_DateOutsideRange(t *testing.T) {
	t.Parallel()

	store := NewAllocationStore(nil)
	if _, err := store.Create(fixedAllocation(t, "a-1", "2025-03-03", "2025-03-07", 4)); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}

	date := mustDay(t, "2025-04-01")
	_, err := store.Delete("a-1", DeleteOptions{Date: &date})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got, _ := store.Get("a-1"); got.Range.Days() != 5 {
		t.Fatal("allocation changed despite rejected delete")
	}
}

func TestAllocationStore_SplitOut(t *testing.T) {
	t.Parallel()

	store := NewAllocationStore(sequenceIDs("new-"))
	if _, err := store.Create(totalAllocation(t, "a-1", "2025-03-03", "2025-03-07", 25)); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}

	piece, outcome, err := store.SplitOut("a-1", mustDay(t, "2025-03-05"))
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if piece.ID != "a-1" {
		t.Fatalf("single-day piece should keep the original id, got %q", piece.ID)
	}
	if piece.Range.Days() != 1 {
		t.Fatalf("expected single-day piece, got %d days", piece.Range.Days())
	}
	if len(outcome.Upserted) != 3 {
		t.Fatalf("expected three pieces, got %d", len(outcome.Upserted))
	}

	var sum float64
	for _, p := range outcome.Upserted {
		sum += *p.TotalHours
	}
	if math.Abs(sum-25) > 1e-9 {
		t.Fatalf("split must conserve hours, got %v", sum)
	}
	// The single-day working piece holds 1/5 of the budget.
	if math.Abs(*piece.TotalHours-5) > 1e-9 {
		t.Fatalf("expected 5 hours on the split day, got %v", *piece.TotalHours)
	}
}

func TestAllocationStore_SplitOut_SingleDayIsNoop(t *testing.T) {
	t.Parallel()

	store := NewAllocationStore(nil)
	if _, err := store.Create(fixedAllocation(t, "a-1", "2025-03-03", "2025-03-03", 4)); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}

	piece, outcome, err := store.SplitOut("a-1", mustDay(t, "2025-03-03"))
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if piece.ID != "a-1" || len(outcome.Upserted) != 1 {
		t.Fatalf("expected the allocation back unchanged, got %v", outcome)
	}
}

func TestAllocationStore_BulkMove_Atomicity(t *testing.T) {
	t.Parallel()

	store := NewAllocationStore(nil)
	if _, err := store.Create(fixedAllocation(t, "a-1", "2025-03-03", "2025-03-07", 4)); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}
	if _, err := store.Create(fixedAllocation(t, "a-2", "2025-03-10", "2025-03-14", 6)); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}

	t.Run("unknown id moves nothing", func(t *testing.T) {
		_, err := store.BulkMove([]string{"a-1", "ghost"}, 7, time.Now())
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		got, _ := store.Get("a-1")
		if !got.Range.Start.Equal(mustDay(t, "2025-03-03")) {
			t.Fatal("allocation moved despite failed bulk move")
		}
	})

	t.Run("valid move shifts every selection", func(t *testing.T) {
		outcome, err := store.BulkMove([]string{"a-1", "a-2"}, 7, time.Now())
		if err != nil {
			t.Fatalf("bulk move: %v", err)
		}
		if len(outcome.Upserted) != 2 {
			t.Fatalf("expected two moved allocations, got %d", len(outcome.Upserted))
		}
		got, _ := store.Get("a-1")
		if !got.Range.Start.Equal(mustDay(t, "2025-03-10")) {
			t.Fatalf("expected a-1 to start 2025-03-10, got %s", dateutil.FormatDay(got.Range.Start))
		}
		got, _ = store.Get("a-2")
		if !got.Range.End.Equal(mustDay(t, "2025-03-21")) {
			t.Fatalf("expected a-2 to end 2025-03-21, got %s", dateutil.FormatDay(got.Range.End))
		}
	})
}

func TestAllocationStore_SnapshotRestore(t *testing.T) {
	t.Parallel()

	store := NewAllocationStore(nil)
	if _, err := store.Create(fixedAllocation(t, "a-1", "2025-03-03", "2025-03-07", 4)); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}

	snapshot := store.Snapshot()
	if _, err := store.Create(fixedAllocation(t, "a-2", "2025-03-10", "2025-03-14", 6)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Delete("a-1", DeleteOptions{}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	store.Restore(snapshot)
	if _, ok := store.Get("a-1"); !ok {
		t.Fatal("restore lost the original allocation")
	}
	if _, ok := store.Get("a-2"); ok {
		t.Fatal("restore kept an allocation created after the snapshot")
	}
}
