package capacity

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailyTarget(t *testing.T) {
	t.Parallel()

	// 2025-03-10 through 2025-03-14 is a holiday-free Monday..Friday week.
	monday := day(2025, time.March, 10)

	t.Run("splits a 37 hour week into long days and a short Friday", func(t *testing.T) {
		t.Parallel()

		cal := NewCalendar(CalendarConfig{})
		for i := 0; i < 4; i++ {
			if got := DailyTarget(monday.AddDate(0, 0, i), 37, cal); got != 7.5 {
				t.Fatalf("weekday %d target = %v, want 7.5", i, got)
			}
		}
		if got := DailyTarget(monday.AddDate(0, 0, 4), 37, cal); got != 7 {
			t.Fatalf("friday target = %v, want 7", got)
		}
	})

	t.Run("weekday targets reproduce the weekly target", func(t *testing.T) {
		t.Parallel()

		cal := NewCalendar(CalendarConfig{})
		for _, weekly := range []float64{20, 32, 37, 38.5, 40, 42} {
			sum := 0.0
			for i := 0; i < 7; i++ {
				got := DailyTarget(monday.AddDate(0, 0, i), weekly, cal)
				if got < 0 || got > weekly {
					t.Fatalf("target %v for weekly %v out of bounds", got, weekly)
				}
				sum += got
			}
			if math.Abs(sum-weekly) > 0.01 {
				t.Fatalf("weekly sum = %v, want %v", sum, weekly)
			}
		}
	})

	t.Run("weekends are zero", func(t *testing.T) {
		t.Parallel()

		cal := NewCalendar(CalendarConfig{})
		saturday := day(2025, time.March, 15)
		if got := DailyTarget(saturday, 40, cal); got != 0 {
			t.Fatalf("saturday target = %v, want 0", got)
		}
	})

	t.Run("enabled default holidays are zero", func(t *testing.T) {
		t.Parallel()

		cal := NewCalendar(CalendarConfig{})
		// 2025-05-01 is a Thursday.
		if got := DailyTarget(day(2025, time.May, 1), 40, cal); got != 0 {
			t.Fatalf("labour day target = %v, want 0", got)
		}
	})

	t.Run("disabled default holidays count as working days", func(t *testing.T) {
		t.Parallel()

		cal := NewCalendar(CalendarConfig{DisabledCodes: []string{"labour_day"}})
		if got := DailyTarget(day(2025, time.May, 1), 40, cal); got != 8 {
			t.Fatalf("disabled holiday target = %v, want 8", got)
		}
	})

	t.Run("zero weekly target is always zero", func(t *testing.T) {
		t.Parallel()

		cal := NewCalendar(CalendarConfig{})
		if got := DailyTarget(monday, 0, cal); got != 0 {
			t.Fatalf("target = %v, want 0", got)
		}
	})
}

func TestCalendarCustomHolidays(t *testing.T) {
	t.Parallel()

	t.Run("recurring custom holiday matches every year", func(t *testing.T) {
		t.Parallel()

		cal := NewCalendar(CalendarConfig{Custom: []CustomHoliday{
			{Name: "Company Day", Month: 6, Day: 15},
		}})
		if !cal.IsHoliday(day(2024, time.June, 15)) || !cal.IsHoliday(day(2025, time.June, 15)) {
			t.Fatal("recurring holiday must match every year")
		}
	})

	t.Run("one-off custom holiday matches only its year", func(t *testing.T) {
		t.Parallel()

		year := 2025
		cal := NewCalendar(CalendarConfig{Custom: []CustomHoliday{
			{Name: "Office Move", Month: 9, Day: 3, Year: &year},
		}})
		if !cal.IsHoliday(day(2025, time.September, 3)) {
			t.Fatal("one-off holiday must match its year")
		}
		if cal.IsHoliday(day(2026, time.September, 3)) {
			t.Fatal("one-off holiday must not recur")
		}
	})

	t.Run("holiday names resolve", func(t *testing.T) {
		t.Parallel()

		cal := NewCalendar(CalendarConfig{})
		name, ok := cal.HolidayName(day(2025, time.December, 25))
		if !ok || name != "Christmas Day" {
			t.Fatalf("HolidayName = %q, %v", name, ok)
		}
	})
}

func TestEffectiveWeeklyCapacity(t *testing.T) {
	t.Parallel()

	target := 37.0

	if hours, ok := EffectiveWeeklyCapacity(EmploymentSalaried, &target); !ok || hours != 37 {
		t.Fatalf("salaried capacity = %v, %v", hours, ok)
	}
	if _, ok := EffectiveWeeklyCapacity(EmploymentHourly, &target); ok {
		t.Fatal("hourly staff must report no fixed capacity")
	}
	if _, ok := EffectiveWeeklyCapacity(EmploymentFreelancer, &target); ok {
		t.Fatal("freelancers must report no fixed capacity")
	}
	if _, ok := EffectiveWeeklyCapacity(EmploymentSalaried, nil); ok {
		t.Fatal("missing target must report no fixed capacity")
	}
}
