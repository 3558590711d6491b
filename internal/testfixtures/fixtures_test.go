package testfixtures

import (
	"testing"

	"github.com/example/resource-planner/internal/capacity"
	"github.com/example/resource-planner/internal/dateutil"
)

func TestEmployeeFixtureDefaults(t *testing.T) {
	fixture := NewEmployeeFixture()

	if fixture.ID == "" {
		t.Fatal("expected generated employee ID")
	}
	if fixture.WeeklyTarget == nil || *fixture.WeeklyTarget != 37.5 {
		t.Fatalf("expected default weekly target 37.5, got %v", fixture.WeeklyTarget)
	}
	if fixture.Employment != capacity.EmploymentSalaried {
		t.Fatalf("expected salaried employment, got %q", fixture.Employment)
	}

	hourly := NewEmployeeFixture(WithEmployment(capacity.EmploymentHourly), WithWeeklyTarget(-1))
	if hourly.WeeklyTarget != nil {
		t.Fatalf("expected cleared weekly target, got %v", hourly.WeeklyTarget)
	}
	if hourly.ID == fixture.ID {
		t.Fatal("expected distinct fixture identifiers")
	}
}

func TestAllocationFixtureConversions(t *testing.T) {
	fixture := NewAllocationFixture("employee-a", "project-a", WithTotalHours(40), WithSpan(0, 11))

	model := fixture.Application()
	if model.HoursPerDay != nil {
		t.Fatalf("expected hour mode to be total, got fixed rate %v", model.HoursPerDay)
	}
	if model.TotalHours == nil || *model.TotalHours != 40 {
		t.Fatalf("expected total hours 40, got %v", model.TotalHours)
	}
	if !model.Range.Start.Equal(ReferenceDay(0)) || !model.Range.End.Equal(ReferenceDay(11)) {
		t.Fatalf("unexpected range %v", model.Range)
	}

	record := fixture.Record()
	if record.EmployeeID != "employee-a" || record.ProjectID != "project-a" {
		t.Fatalf("unexpected foreign keys %q/%q", record.EmployeeID, record.ProjectID)
	}
	if !record.StartDate.Equal(model.Range.Start) || !record.EndDate.Equal(model.Range.End) {
		t.Fatal("record dates diverge from application range")
	}
}

func TestProjectFixtureOptions(t *testing.T) {
	fixture := NewProjectFixture(WithBudget(120), Locked())

	if fixture.BudgetHours == nil || *fixture.BudgetHours != 120 {
		t.Fatalf("expected budget 120, got %v", fixture.BudgetHours)
	}
	if !fixture.Locked {
		t.Fatal("expected locked project")
	}

	record := fixture.Record()
	if record.Client == nil || *record.Client != fixture.Client {
		t.Fatalf("expected client %q in record, got %v", fixture.Client, record.Client)
	}
}

func TestReferenceDayIsMidnight(t *testing.T) {
	day := ReferenceDay(3)
	if !day.Equal(dateutil.Day(day)) {
		t.Fatalf("expected midnight day, got %v", day)
	}
	if day.Weekday().String() != "Thursday" {
		t.Fatalf("expected reference Monday plus three days to be Thursday, got %v", day.Weekday())
	}
}
