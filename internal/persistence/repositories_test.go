package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/resource-planner/internal/capacity"
	"github.com/example/resource-planner/internal/persistence"
	"github.com/example/resource-planner/internal/planner"
	"github.com/example/resource-planner/internal/testfixtures"
)

func newEmployeeRecord(opts ...testfixtures.EmployeeOption) persistence.Employee {
	return testfixtures.NewEmployeeFixture(opts...).Record()
}

func newProjectRecord(opts ...testfixtures.ProjectOption) persistence.Project {
	return testfixtures.NewProjectFixture(opts...).Record()
}

func newAllocationRecord(employeeID, projectID string, opts ...testfixtures.AllocationOption) persistence.Allocation {
	return testfixtures.NewAllocationFixture(employeeID, projectID, opts...).Record()
}

func TestAllocationPersistenceRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)

	employee := newEmployeeRecord(testfixtures.WithEmployeeID("emp-round"))
	if err := harness.Employees.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	project := newProjectRecord(testfixtures.WithProjectID("prj-round"))
	if err := harness.Projects.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	allocation := newAllocationRecord("emp-round", "prj-round",
		testfixtures.WithAllocationID("alloc-round"),
		testfixtures.WithSpan(0, 4),
		testfixtures.WithTotalHours(20),
		testfixtures.WithStatus(planner.StatusConfirmed),
	)
	if err := harness.Allocations.CreateAllocation(ctx, allocation); err != nil {
		t.Fatalf("CreateAllocation failed: %v", err)
	}

	fetched, err := harness.Allocations.GetAllocation(ctx, "alloc-round")
	if err != nil {
		t.Fatalf("GetAllocation failed: %v", err)
	}
	if !fetched.StartDate.Equal(testfixtures.ReferenceDay(0)) || !fetched.EndDate.Equal(testfixtures.ReferenceDay(4)) {
		t.Fatalf("unexpected range: %v .. %v", fetched.StartDate, fetched.EndDate)
	}
	if fetched.TotalHours == nil || *fetched.TotalHours != 20 {
		t.Fatalf("expected total hours 20, got %v", fetched.TotalHours)
	}
	if fetched.HoursPerDay != nil {
		t.Fatalf("expected nil hours per day, got %v", *fetched.HoursPerDay)
	}
	if fetched.Status != string(planner.StatusConfirmed) {
		t.Fatalf("unexpected status %q", fetched.Status)
	}

	fetched.Status = string(planner.StatusCompleted)
	if err := harness.Allocations.UpdateAllocation(ctx, fetched); err != nil {
		t.Fatalf("UpdateAllocation failed: %v", err)
	}
	updated, err := harness.Allocations.GetAllocation(ctx, "alloc-round")
	if err != nil {
		t.Fatalf("GetAllocation after update failed: %v", err)
	}
	if updated.Status != string(planner.StatusCompleted) {
		t.Fatalf("status not persisted, got %q", updated.Status)
	}

	if err := harness.Allocations.DeleteAllocation(ctx, "alloc-round"); err != nil {
		t.Fatalf("DeleteAllocation failed: %v", err)
	}
	if _, err := harness.Allocations.GetAllocation(ctx, "alloc-round"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestAllocationPersistenceWindowFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)

	if err := harness.Employees.CreateEmployee(ctx, newEmployeeRecord(testfixtures.WithEmployeeID("emp-win"))); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	if err := harness.Projects.CreateProject(ctx, newProjectRecord(testfixtures.WithProjectID("prj-win"))); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	early := newAllocationRecord("emp-win", "prj-win",
		testfixtures.WithAllocationID("alloc-early"), testfixtures.WithSpan(0, 4))
	late := newAllocationRecord("emp-win", "prj-win",
		testfixtures.WithAllocationID("alloc-late"), testfixtures.WithSpan(14, 18))
	for _, record := range []persistence.Allocation{early, late} {
		if err := harness.Allocations.CreateAllocation(ctx, record); err != nil {
			t.Fatalf("CreateAllocation %s failed: %v", record.ID, err)
		}
	}

	from := testfixtures.ReferenceDay(3)
	to := testfixtures.ReferenceDay(7)
	got, err := harness.Allocations.ListAllocations(ctx, persistence.AllocationFilter{
		EmployeeID: "emp-win",
		From:       &from,
		To:         &to,
	})
	if err != nil {
		t.Fatalf("ListAllocations failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "alloc-early" {
		t.Fatalf("expected only the overlapping allocation, got %d rows", len(got))
	}
}

func TestEmployeeDirectoryListing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)

	hourly := newEmployeeRecord(
		testfixtures.WithEmployeeID("emp-hourly"),
		testfixtures.WithEmployment(capacity.EmploymentHourly),
		testfixtures.WithWeeklyTarget(-1),
	)
	salaried := newEmployeeRecord(testfixtures.WithEmployeeID("emp-salaried"))
	for _, record := range []persistence.Employee{hourly, salaried} {
		if err := harness.Employees.CreateEmployee(ctx, record); err != nil {
			t.Fatalf("CreateEmployee %s failed: %v", record.ID, err)
		}
	}

	got, err := harness.Employees.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("ListEmployees failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(got))
	}
	byID := map[string]persistence.Employee{}
	for _, employee := range got {
		byID[employee.ID] = employee
	}
	if byID["emp-hourly"].WeeklyTarget != nil {
		t.Fatalf("hourly employee should have no weekly target")
	}
	if byID["emp-salaried"].WeeklyTarget == nil || *byID["emp-salaried"].WeeklyTarget != 37.5 {
		t.Fatalf("unexpected salaried target: %v", byID["emp-salaried"].WeeklyTarget)
	}
}

func TestProjectCatalogFlags(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)

	open := newProjectRecord(
		testfixtures.WithProjectID("prj-open"),
		testfixtures.WithBudget(160),
	)
	locked := newProjectRecord(testfixtures.WithProjectID("prj-locked"), testfixtures.Locked())
	archived := newProjectRecord(testfixtures.WithProjectID("prj-archived"), testfixtures.Archived())
	for _, record := range []persistence.Project{open, locked, archived} {
		if err := harness.Projects.CreateProject(ctx, record); err != nil {
			t.Fatalf("CreateProject %s failed: %v", record.ID, err)
		}
	}

	active, err := harness.Projects.ListProjects(ctx, false)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected archived project hidden, got %d rows", len(active))
	}

	all, err := harness.Projects.ListProjects(ctx, true)
	if err != nil {
		t.Fatalf("ListProjects with archived failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(all))
	}

	fetched, err := harness.Projects.GetProject(ctx, "prj-locked")
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if !fetched.Locked {
		t.Fatalf("lock flag lost in round trip")
	}
	budgeted, err := harness.Projects.GetProject(ctx, "prj-open")
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if budgeted.BudgetHours == nil || *budgeted.BudgetHours != 160 {
		t.Fatalf("unexpected budget: %v", budgeted.BudgetHours)
	}
}

func TestActivityLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)

	if err := harness.Projects.CreateProject(ctx, newProjectRecord(testfixtures.WithProjectID("prj-act"))); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	activity := testfixtures.NewActivityFixture("prj-act",
		testfixtures.WithActivitySpan(0, 9)).Record()
	if err := harness.Activities.CreateActivity(ctx, activity); err != nil {
		t.Fatalf("CreateActivity failed: %v", err)
	}

	fetched, err := harness.Activities.GetActivity(ctx, activity.ID)
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if fetched.Category == nil || *fetched.Category != "design" {
		t.Fatalf("unexpected category: %v", fetched.Category)
	}
	if !fetched.EndDate.Equal(testfixtures.ReferenceDay(9)) {
		t.Fatalf("unexpected end date %v", fetched.EndDate)
	}

	listed, err := harness.Activities.ListActivities(ctx, "prj-act")
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(listed))
	}

	if err := harness.Activities.DeleteActivity(ctx, activity.ID); err != nil {
		t.Fatalf("DeleteActivity failed: %v", err)
	}
	if _, err := harness.Activities.GetActivity(ctx, activity.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMilestoneLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)

	if err := harness.Projects.CreateProject(ctx, newProjectRecord(testfixtures.WithProjectID("prj-ms"))); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	milestone := testfixtures.NewMilestoneFixture("prj-ms",
		testfixtures.WithDueDate(11)).Record()
	if err := harness.Milestones.CreateMilestone(ctx, milestone); err != nil {
		t.Fatalf("CreateMilestone failed: %v", err)
	}

	fetched, err := harness.Milestones.GetMilestone(ctx, milestone.ID)
	if err != nil {
		t.Fatalf("GetMilestone failed: %v", err)
	}
	if !fetched.DueDate.Equal(testfixtures.ReferenceDay(11)) {
		t.Fatalf("unexpected due date %v", fetched.DueDate)
	}

	fetched.Completed = true
	if err := harness.Milestones.UpdateMilestone(ctx, fetched); err != nil {
		t.Fatalf("UpdateMilestone failed: %v", err)
	}
	listed, err := harness.Milestones.ListMilestones(ctx, "prj-ms")
	if err != nil {
		t.Fatalf("ListMilestones failed: %v", err)
	}
	if len(listed) != 1 || !listed[0].Completed {
		t.Fatalf("completion flag lost: %+v", listed)
	}

	if err := harness.Milestones.DeleteMilestone(ctx, milestone.ID); err != nil {
		t.Fatalf("DeleteMilestone failed: %v", err)
	}
	if _, err := harness.Milestones.GetMilestone(ctx, milestone.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
