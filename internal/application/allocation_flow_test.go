package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/resource-planner/internal/application"
	"github.com/example/resource-planner/internal/dateutil"
	"github.com/example/resource-planner/internal/planner"
	"github.com/example/resource-planner/internal/testfixtures"
)

type recordingAllocationRepo struct {
	created []application.Allocation
	updated []application.Allocation
	deleted []string
	window  []application.Allocation
}

func (r *recordingAllocationRepo) CreateAllocation(ctx context.Context, allocation application.Allocation) error {
	r.created = append(r.created, allocation)
	return nil
}

func (r *recordingAllocationRepo) UpdateAllocation(ctx context.Context, allocation application.Allocation) error {
	r.updated = append(r.updated, allocation)
	return nil
}

func (r *recordingAllocationRepo) DeleteAllocation(ctx context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *recordingAllocationRepo) ListAllocations(ctx context.Context, employeeID string, from, to time.Time) ([]application.Allocation, error) {
	return r.window, nil
}

type fixtureDirectory struct {
	employees map[string]application.Employee
}

func (d *fixtureDirectory) GetEmployee(ctx context.Context, id string) (application.Employee, error) {
	employee, ok := d.employees[id]
	if !ok {
		return application.Employee{}, application.ErrNotFound
	}
	return employee, nil
}

func (d *fixtureDirectory) ListEmployees(ctx context.Context) ([]application.Employee, error) {
	out := make([]application.Employee, 0, len(d.employees))
	for _, employee := range d.employees {
		out = append(out, employee)
	}
	return out, nil
}

type fixtureCatalog struct {
	projects map[string]application.Project
}

func (c *fixtureCatalog) GetProject(ctx context.Context, id string) (application.Project, error) {
	project, ok := c.projects[id]
	if !ok {
		return application.Project{}, application.ErrNotFound
	}
	return project, nil
}

func (c *fixtureCatalog) ListProjects(ctx context.Context, includeArchived bool) ([]application.Project, error) {
	out := make([]application.Project, 0, len(c.projects))
	for _, project := range c.projects {
		if project.Archived && !includeArchived {
			continue
		}
		out = append(out, project)
	}
	return out, nil
}

func newFlowService(repo *recordingAllocationRepo) (*application.AllocationService, *testfixtures.Clock) {
	employee := testfixtures.NewEmployeeFixture(testfixtures.WithEmployeeID("emp-flow"))
	open := testfixtures.NewProjectFixture(testfixtures.WithProjectID("prj-flow"))
	locked := testfixtures.NewProjectFixture(testfixtures.WithProjectID("prj-locked"), testfixtures.Locked())

	clock := testfixtures.NewClock(time.Time{})
	factory := testfixtures.NewServiceFactory(
		testfixtures.WithClock(clock),
		testfixtures.WithIDGenerator(testfixtures.NewIDGenerator("alloc")),
	)
	service := factory.NewAllocationService(testfixtures.AllocationServiceDeps{
		Allocations: repo,
		Employees:   &fixtureDirectory{employees: map[string]application.Employee{"emp-flow": employee.Application()}},
		Projects: &fixtureCatalog{projects: map[string]application.Project{
			"prj-flow":   open.Application(),
			"prj-locked": locked.Application(),
		}},
	})
	return service, clock
}

func TestAllocationServiceFlow(t *testing.T) {
	ctx := context.Background()
	repo := &recordingAllocationRepo{}
	service, clock := newFlowService(repo)

	rate := 4.0
	created, err := service.CreateAllocation(ctx, application.AllocationInput{
		EmployeeID:  "emp-flow",
		ProjectID:   "prj-flow",
		Start:       testfixtures.ReferenceDay(0),
		End:         testfixtures.ReferenceDay(4),
		HoursPerDay: &rate,
	})
	if err != nil {
		t.Fatalf("CreateAllocation failed: %v", err)
	}
	if created.ID != "alloc-1" {
		t.Fatalf("expected deterministic id alloc-1, got %q", created.ID)
	}
	if !created.CreatedAt.Equal(testfixtures.ReferenceTime()) {
		t.Fatalf("expected creation at the frozen clock, got %v", created.CreatedAt)
	}
	if created.Status != planner.StatusTentative {
		t.Fatalf("expected tentative default, got %q", created.Status)
	}
	if len(repo.created) != 1 || repo.created[0].ID != "alloc-1" {
		t.Fatalf("allocation not committed to the repository: %+v", repo.created)
	}

	clock.Advance(time.Hour)
	status := planner.StatusConfirmed
	updated, err := service.UpdateAllocation(ctx, application.UpdateAllocationParams{
		AllocationID: "alloc-1",
		Input:        application.AllocationUpdate{Status: &status},
	})
	if err != nil {
		t.Fatalf("UpdateAllocation failed: %v", err)
	}
	if updated.Status != planner.StatusConfirmed {
		t.Fatalf("status not applied: %q", updated.Status)
	}
	if !updated.UpdatedAt.Equal(testfixtures.ReferenceTime().Add(time.Hour)) {
		t.Fatalf("expected updated timestamp from the advanced clock, got %v", updated.UpdatedAt)
	}

	outcome, err := service.DeleteAllocation(ctx, application.DeleteAllocationParams{AllocationID: "alloc-1"})
	if err != nil {
		t.Fatalf("DeleteAllocation failed: %v", err)
	}
	if len(outcome.Deleted) != 1 || outcome.Deleted[0] != "alloc-1" {
		t.Fatalf("unexpected delete outcome: %+v", outcome)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "alloc-1" {
		t.Fatalf("delete not committed to the repository: %+v", repo.deleted)
	}
}

func TestAllocationServiceFlowRejectsLockedProject(t *testing.T) {
	ctx := context.Background()
	repo := &recordingAllocationRepo{}
	service, _ := newFlowService(repo)

	rate := 4.0
	_, err := service.CreateAllocation(ctx, application.AllocationInput{
		EmployeeID:  "emp-flow",
		ProjectID:   "prj-locked",
		Start:       testfixtures.ReferenceDay(0),
		End:         testfixtures.ReferenceDay(4),
		HoursPerDay: &rate,
	})
	if !errors.Is(err, application.ErrProjectLocked) {
		t.Fatalf("expected locked project rejection, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("locked project write must not reach the repository")
	}
}

func TestAllocationServiceFlowLoadsWindowFromFixtures(t *testing.T) {
	ctx := context.Background()
	seeded := testfixtures.NewAllocationFixture("emp-flow", "prj-flow",
		testfixtures.WithAllocationID("alloc-seeded"),
		testfixtures.WithSpan(0, 4),
	)
	repo := &recordingAllocationRepo{window: []application.Allocation{seeded.Application()}}
	service, _ := newFlowService(repo)

	window := dateutil.Range{Start: testfixtures.ReferenceDay(0), End: testfixtures.ReferenceDay(6)}
	if err := service.LoadWindow(ctx, "emp-flow", window); err != nil {
		t.Fatalf("LoadWindow failed: %v", err)
	}

	status := planner.StatusConfirmed
	updated, err := service.UpdateAllocation(ctx, application.UpdateAllocationParams{
		AllocationID: "alloc-seeded",
		Input:        application.AllocationUpdate{Status: &status},
	})
	if err != nil {
		t.Fatalf("UpdateAllocation on loaded window failed: %v", err)
	}
	if updated.Status != planner.StatusConfirmed {
		t.Fatalf("status not applied: %q", updated.Status)
	}
}
