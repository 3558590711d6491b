package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/example/resource-planner/internal/dateutil"
	"github.com/example/resource-planner/internal/metrics"
	"github.com/example/resource-planner/internal/planner"
)

// AllocationRepository captures the persistence interactions needed by the
// allocation service.
type AllocationRepository interface {
	CreateAllocation(ctx context.Context, allocation Allocation) error
	UpdateAllocation(ctx context.Context, allocation Allocation) error
	DeleteAllocation(ctx context.Context, id string) error
	ListAllocations(ctx context.Context, employeeID string, from, to time.Time) ([]Allocation, error)
}

// EmployeeDirectory exposes employee lookup operations.
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
}

// ProjectCatalog exposes project lookup operations.
type ProjectCatalog interface {
	GetProject(ctx context.Context, id string) (Project, error)
	ListProjects(ctx context.Context, includeArchived bool) ([]Project, error)
}

// AllocationService orchestrates validation, the optimistic local store and
// persistence for allocation writes. Every mutation is applied to the store
// first; when the subsequent persistence commit fails the local state is
// kept and a CommitError carrying the pre-mutation snapshot is returned, so
// the consumer can either retry or revert.
type AllocationService struct {
	store       *AllocationStore
	allocations AllocationRepository
	employees   EmployeeDirectory
	projects    ProjectCatalog
	cache       *ConflictCache
	logger      *slog.Logger
	idGenerator func() string
	now         func() time.Time
}

// NewAllocationService wires dependencies for allocation operations.
func NewAllocationService(store *AllocationStore, allocations AllocationRepository, employees EmployeeDirectory, projects ProjectCatalog, cache *ConflictCache, logger *slog.Logger, idGenerator func() string, now func() time.Time) *AllocationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AllocationService{
		store:       store,
		allocations: allocations,
		employees:   employees,
		projects:    projects,
		cache:       cache,
		logger:      defaultLogger(logger),
		idGenerator: idGenerator,
		now:         now,
	}
}

// LoadWindow replaces the local store with the persisted allocations of the
// window.
func (s *AllocationService) LoadWindow(ctx context.Context, employeeID string, window dateutil.Range) error {
	allocations, err := s.allocations.ListAllocations(ctx, employeeID, window.Start, window.End)
	if err != nil {
		return err
	}
	s.store.Load(allocations)
	return nil
}

// CreateAllocation validates the request, applies it locally and persists it.
func (s *AllocationService) CreateAllocation(ctx context.Context, input AllocationInput) (Allocation, error) {
	logger := serviceLogger(ctx, s.logger, "allocation", "create",
		"employee_id", input.EmployeeID, "project_id", input.ProjectID)

	now := s.now()
	allocation := Allocation{
		ID:          s.idGenerator(),
		EmployeeID:  input.EmployeeID,
		ProjectID:   input.ProjectID,
		Range:       dateutil.Range{Start: dateutil.Day(input.Start), End: dateutil.Day(input.End)},
		HoursPerDay: input.HoursPerDay,
		TotalHours:  input.TotalHours,
		Status:      input.Status,
		Note:        strings.TrimSpace(input.Note),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if allocation.Status == "" {
		allocation.Status = planner.StatusTentative
	}

	if err := validateAllocation(allocation); err != nil {
		logger.InfoContext(ctx, "allocation rejected", "error_kind", ErrorKind(err))
		metrics.IncrementAllocationMutation("create", "rejected")
		return Allocation{}, err
	}
	if err := s.ensureReferences(ctx, allocation.EmployeeID, allocation.ProjectID); err != nil {
		logger.InfoContext(ctx, "allocation rejected", "error_kind", ErrorKind(err))
		metrics.IncrementAllocationMutation("create", "rejected")
		return Allocation{}, err
	}

	snapshot := s.store.Snapshot()
	created, err := s.store.Create(allocation)
	if err != nil {
		metrics.IncrementAllocationMutation("create", "rejected")
		return Allocation{}, err
	}
	s.cache.Invalidate()

	if err := s.allocations.CreateAllocation(ctx, created); err != nil {
		logger.ErrorContext(ctx, "allocation commit failed", "allocation_id", created.ID, "error", err)
		metrics.IncrementCommitFailure("create")
		metrics.IncrementAllocationMutation("create", "commit_failed")
		return created, &CommitError{Op: "create allocation", Err: err, Snapshot: snapshot}
	}

	logger.InfoContext(ctx, "allocation created", "allocation_id", created.ID)
	metrics.IncrementAllocationMutation("create", "ok")
	return created, nil
}

// UpdateAllocation applies a partial update. With EditDate set, a multi-day
// allocation is split around that day first and only the single-day piece is
// updated; surrounding pieces keep their hours.
func (s *AllocationService) UpdateAllocation(ctx context.Context, params UpdateAllocationParams) (Allocation, error) {
	logger := serviceLogger(ctx, s.logger, "allocation", "update", "allocation_id", params.AllocationID)

	existing, ok := s.store.Get(params.AllocationID)
	if !ok {
		return Allocation{}, ErrNotFound
	}
	if err := s.ensureProjectWritable(ctx, existing.ProjectID); err != nil {
		logger.InfoContext(ctx, "allocation update rejected", "error_kind", ErrorKind(err))
		metrics.IncrementAllocationMutation("update", "rejected")
		return Allocation{}, err
	}

	snapshot := s.store.Snapshot()
	outcome := MutationOutcome{}

	targetID := params.AllocationID
	if params.EditDate != nil {
		_, splitOutcome, err := s.store.SplitOut(params.AllocationID, *params.EditDate)
		if err != nil {
			metrics.IncrementAllocationMutation("update", "rejected")
			return Allocation{}, err
		}
		outcome.Upserted = append(outcome.Upserted, splitOutcome.Upserted...)
	}

	updated, err := s.store.Update(targetID, params.Input, s.now())
	if err != nil {
		s.store.Restore(snapshot)
		metrics.IncrementAllocationMutation("update", "rejected")
		return Allocation{}, err
	}
	outcome = mergeUpsert(outcome, updated)
	s.cache.Invalidate()

	if err := s.persistOutcome(ctx, outcome, snapshot); err != nil {
		logger.ErrorContext(ctx, "allocation commit failed", "error", err)
		metrics.IncrementCommitFailure("update")
		metrics.IncrementAllocationMutation("update", "commit_failed")
		return updated, &CommitError{Op: "update allocation", Err: err, Snapshot: snapshot}
	}

	logger.InfoContext(ctx, "allocation updated", "pieces", len(outcome.Upserted))
	metrics.IncrementAllocationMutation("update", "ok")
	return updated, nil
}

// DeleteAllocation removes an allocation, or a single day of a multi-day
// one. The returned outcome lists every allocation the deletion touched.
func (s *AllocationService) DeleteAllocation(ctx context.Context, params DeleteAllocationParams) (MutationOutcome, error) {
	logger := serviceLogger(ctx, s.logger, "allocation", "delete", "allocation_id", params.AllocationID)

	existing, ok := s.store.Get(params.AllocationID)
	if !ok {
		return MutationOutcome{}, ErrNotFound
	}
	if err := s.ensureProjectWritable(ctx, existing.ProjectID); err != nil {
		logger.InfoContext(ctx, "allocation delete rejected", "error_kind", ErrorKind(err))
		metrics.IncrementAllocationMutation("delete", "rejected")
		return MutationOutcome{}, err
	}

	snapshot := s.store.Snapshot()
	outcome, err := s.store.Delete(params.AllocationID, DeleteOptions{
		Date:         params.Date,
		Redistribute: params.Redistribute,
	})
	if err != nil {
		metrics.IncrementAllocationMutation("delete", "rejected")
		return MutationOutcome{}, err
	}
	s.cache.Invalidate()

	if err := s.persistOutcome(ctx, outcome, snapshot); err != nil {
		logger.ErrorContext(ctx, "allocation commit failed", "error", err)
		metrics.IncrementCommitFailure("delete")
		metrics.IncrementAllocationMutation("delete", "commit_failed")
		return outcome, &CommitError{Op: "delete allocation", Err: err, Snapshot: snapshot}
	}

	logger.InfoContext(ctx, "allocation deleted",
		"removed", len(outcome.Deleted), "pieces", len(outcome.Upserted))
	metrics.IncrementAllocationMutation("delete", "ok")
	return outcome, nil
}

// BulkMove shifts every selected allocation by the same day delta. The move
// is atomic: an unknown id or invalid shifted range leaves everything in
// place.
func (s *AllocationService) BulkMove(ctx context.Context, params BulkMoveParams) (MutationOutcome, error) {
	logger := serviceLogger(ctx, s.logger, "allocation", "bulk_move",
		"count", len(params.AllocationIDs), "delta_days", params.DeltaDays)

	if len(params.AllocationIDs) == 0 {
		vErr := &ValidationError{}
		vErr.add("allocation_ids", "at least one allocation is required")
		return MutationOutcome{}, vErr
	}

	for _, id := range params.AllocationIDs {
		existing, ok := s.store.Get(id)
		if !ok {
			return MutationOutcome{}, ErrNotFound
		}
		if err := s.ensureProjectWritable(ctx, existing.ProjectID); err != nil {
			logger.InfoContext(ctx, "bulk move rejected", "error_kind", ErrorKind(err))
			metrics.IncrementAllocationMutation("bulk_move", "rejected")
			return MutationOutcome{}, err
		}
	}

	snapshot := s.store.Snapshot()
	outcome, err := s.store.BulkMove(params.AllocationIDs, params.DeltaDays, s.now())
	if err != nil {
		metrics.IncrementAllocationMutation("bulk_move", "rejected")
		return MutationOutcome{}, err
	}
	s.cache.Invalidate()

	if err := s.persistOutcome(ctx, outcome, snapshot); err != nil {
		logger.ErrorContext(ctx, "bulk move commit failed", "error", err)
		metrics.IncrementCommitFailure("bulk_move")
		metrics.IncrementAllocationMutation("bulk_move", "commit_failed")
		return outcome, &CommitError{Op: "bulk move", Err: err, Snapshot: snapshot}
	}

	logger.InfoContext(ctx, "allocations moved", "moved", len(outcome.Upserted))
	metrics.IncrementAllocationMutation("bulk_move", "ok")
	return outcome, nil
}

// Revert resets the local store to the snapshot carried by a CommitError.
func (s *AllocationService) Revert(snapshot StoreSnapshot) {
	s.store.Restore(snapshot)
	s.cache.Invalidate()
}

// persistOutcome writes a local mutation through to persistence. Allocations
// present in the pre-mutation snapshot are updated, new ones created.
func (s *AllocationService) persistOutcome(ctx context.Context, outcome MutationOutcome, before StoreSnapshot) error {
	for _, id := range outcome.Deleted {
		if err := s.allocations.DeleteAllocation(ctx, id); err != nil {
			return err
		}
	}
	for _, alloc := range outcome.Upserted {
		if _, existed := before.allocations[alloc.ID]; existed {
			if err := s.allocations.UpdateAllocation(ctx, alloc); err != nil {
				return err
			}
			continue
		}
		if err := s.allocations.CreateAllocation(ctx, alloc); err != nil {
			return err
		}
	}
	return nil
}

func (s *AllocationService) ensureReferences(ctx context.Context, employeeID, projectID string) error {
	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		if errors.Is(mapRepoError(err), ErrNotFound) {
			vErr := &ValidationError{}
			vErr.add("employee_id", "employee does not exist")
			return vErr
		}
		return err
	}
	return s.ensureProjectWritable(ctx, projectID)
}

func (s *AllocationService) ensureProjectWritable(ctx context.Context, projectID string) error {
	return projectWritable(ctx, s.projects, projectID)
}

// projectWritable rejects mutations against missing, locked or archived
// projects.
func projectWritable(ctx context.Context, projects ProjectCatalog, projectID string) error {
	project, err := projects.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(mapRepoError(err), ErrNotFound) {
			vErr := &ValidationError{}
			vErr.add("project_id", "project does not exist")
			return vErr
		}
		return err
	}
	if project.Locked || project.Archived {
		return ErrProjectLocked
	}
	return nil
}

// mergeUpsert replaces an earlier upsert of the same allocation, keeping the
// later state.
func mergeUpsert(outcome MutationOutcome, alloc Allocation) MutationOutcome {
	for i, existing := range outcome.Upserted {
		if existing.ID == alloc.ID {
			outcome.Upserted[i] = alloc
			return outcome
		}
	}
	outcome.Upserted = append(outcome.Upserted, alloc)
	return outcome
}
