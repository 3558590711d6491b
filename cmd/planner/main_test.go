package main

import (
	"context"
	"testing"
	"time"

	"github.com/example/resource-planner/internal/application"
	"github.com/example/resource-planner/internal/capacity"
	"github.com/example/resource-planner/internal/dateutil"
	"github.com/example/resource-planner/internal/persistence"
	"github.com/example/resource-planner/internal/planner"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := dateutil.ParseDay(value)
	if err != nil {
		t.Fatalf("parse day %q: %v", value, err)
	}
	return parsed
}

func TestAllocationConversionRoundTrip(t *testing.T) {
	t.Parallel()

	total := 40.0
	note := "ramp-up week"
	stored := persistence.Allocation{
		ID:         "alloc-1",
		EmployeeID: "emp-1",
		ProjectID:  "proj-1",
		StartDate:  day(t, "2025-03-03"),
		EndDate:    day(t, "2025-03-14"),
		TotalHours: &total,
		Status:     "confirmed",
		Note:       &note,
	}

	model := toApplicationAllocation(stored)
	if model.Status != planner.StatusConfirmed {
		t.Fatalf("status = %q, want confirmed", model.Status)
	}
	if model.HoursPerDay != nil {
		t.Fatalf("hours per day = %v, want nil for total-hour allocation", model.HoursPerDay)
	}
	if model.Note != note {
		t.Fatalf("note = %q, want %q", model.Note, note)
	}
	if !model.Range.Start.Equal(stored.StartDate) || !model.Range.End.Equal(stored.EndDate) {
		t.Fatalf("range = %v, want %v..%v", model.Range, stored.StartDate, stored.EndDate)
	}

	back := toPersistenceAllocation(model)
	if back.TotalHours == nil || *back.TotalHours != total {
		t.Fatalf("total hours = %v, want %v", back.TotalHours, total)
	}
	if back.Note == nil || *back.Note != note {
		t.Fatalf("note = %v, want %q", back.Note, note)
	}
	if back.HoursPerDay != nil {
		t.Fatalf("hours per day = %v, want nil", back.HoursPerDay)
	}
}

func TestAllocationConversionClonesPointers(t *testing.T) {
	t.Parallel()

	rate := 4.0
	stored := persistence.Allocation{
		ID:          "alloc-1",
		StartDate:   day(t, "2025-03-03"),
		EndDate:     day(t, "2025-03-07"),
		HoursPerDay: &rate,
		Status:      "tentative",
	}

	model := toApplicationAllocation(stored)
	*stored.HoursPerDay = 99

	if *model.HoursPerDay != 4 {
		t.Fatalf("hours per day = %v, want insulated copy of 4", *model.HoursPerDay)
	}
}

func TestMilestoneConversionOptionalFields(t *testing.T) {
	t.Parallel()

	milestone := application.Milestone{
		ID:        "mile-1",
		ProjectID: "proj-1",
		Type:      application.MilestoneCustom,
		Title:     "Launch",
		DueDate:   day(t, "2025-04-01"),
	}

	model := toPersistenceMilestone(milestone)
	if model.Icon != nil || model.Color != nil || model.Description != nil {
		t.Fatalf("expected empty optionals to map to nil, got %+v", model)
	}

	back := toApplicationMilestone(model)
	if back.Icon != "" || back.Color != "" || back.Description != "" {
		t.Fatalf("expected empty optionals back, got %+v", back)
	}
}

type settingsRepositoryStub struct {
	setting persistence.HolidaySetting
	err     error
}

func (s *settingsRepositoryStub) HolidaySetting(context.Context) (persistence.HolidaySetting, error) {
	return s.setting, s.err
}

func (s *settingsRepositoryStub) SaveHolidaySetting(context.Context, persistence.HolidaySetting) error {
	return nil
}

func TestHolidaySourceAdapter(t *testing.T) {
	t.Parallel()

	t.Run("falls back to the file configuration when storage is empty", func(t *testing.T) {
		t.Parallel()

		fallback := capacity.CalendarConfig{DisabledCodes: []string{"new_years_day"}}
		source := newHolidaySourceAdapter(&settingsRepositoryStub{}, fallback)

		cfg, err := source.HolidayCalendar(context.Background())
		if err != nil {
			t.Fatalf("HolidayCalendar returned error: %v", err)
		}
		if len(cfg.DisabledCodes) != 1 || cfg.DisabledCodes[0] != "new_years_day" {
			t.Fatalf("config = %+v, want fallback", cfg)
		}
	})

	t.Run("stored settings shadow the fallback", func(t *testing.T) {
		t.Parallel()

		year := 2025
		stub := &settingsRepositoryStub{
			setting: persistence.HolidaySetting{
				Custom: []persistence.CustomHolidayRecord{
					{ID: "h-1", Name: "Office Move", Month: 9, Day: 1, Year: &year},
				},
			},
		}
		source := newHolidaySourceAdapter(stub, capacity.CalendarConfig{DisabledCodes: []string{"unused"}})

		cfg, err := source.HolidayCalendar(context.Background())
		if err != nil {
			t.Fatalf("HolidayCalendar returned error: %v", err)
		}
		if len(cfg.DisabledCodes) != 0 {
			t.Fatalf("disabled codes = %v, want none", cfg.DisabledCodes)
		}
		if len(cfg.Custom) != 1 || cfg.Custom[0].Name != "Office Move" {
			t.Fatalf("custom = %+v, want stored holiday", cfg.Custom)
		}
		if cfg.Custom[0].Year == nil || *cfg.Custom[0].Year != 2025 {
			t.Fatalf("year = %v, want 2025", cfg.Custom[0].Year)
		}
	})
}
