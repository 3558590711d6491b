package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type milestoneRepoStub struct {
	milestones map[string]Milestone
	created    []Milestone
	updated    []Milestone
	deleted    []string
	err        error
}

func (m *milestoneRepoStub) CreateMilestone(ctx context.Context, milestone Milestone) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, milestone)
	return nil
}

func (m *milestoneRepoStub) UpdateMilestone(ctx context.Context, milestone Milestone) error {
	if m.err != nil {
		return m.err
	}
	m.updated = append(m.updated, milestone)
	return nil
}

func (m *milestoneRepoStub) GetMilestone(ctx context.Context, id string) (Milestone, error) {
	if m.err != nil {
		return Milestone{}, m.err
	}
	milestone, ok := m.milestones[id]
	if !ok {
		return Milestone{}, ErrNotFound
	}
	return milestone, nil
}

func (m *milestoneRepoStub) ListMilestones(ctx context.Context, projectID string) ([]Milestone, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]Milestone, 0, len(m.milestones))
	for _, milestone := range m.milestones {
		if milestone.ProjectID == projectID {
			out = append(out, milestone)
		}
	}
	return out, nil
}

func (m *milestoneRepoStub) DeleteMilestone(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func newMilestoneServiceForTest(t *testing.T, repo *milestoneRepoStub, projects map[string]Project) *MilestoneService {
	t.Helper()
	return NewMilestoneService(
		repo,
		&projectCatalogStub{projects: projects},
		&phaseCatalogStub{phases: []Phase{{ID: "ph-1", Name: "Design", Position: 1}}},
		nil,
		sequenceIDs("ms-"),
		func() time.Time { return time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC) },
	)
}

func TestMilestoneService_CreatePhaseMilestone(t *testing.T) {
	t.Parallel()

	repo := &milestoneRepoStub{}
	service := newMilestoneServiceForTest(t, repo, openProjects("prj-1"))

	phaseID := "ph-1"
	created, err := service.CreateMilestone(context.Background(), MilestoneInput{
		ProjectID: "prj-1",
		Type:      MilestonePhase,
		PhaseID:   &phaseID,
		DueDate:   mustDay(t, "2025-05-30"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Title != "Design" {
		t.Fatalf("phase milestone should default its title to the phase name, got %q", created.Title)
	}
	if len(repo.created) != 1 {
		t.Fatal("milestone was not persisted")
	}
}

func TestMilestoneService_PhaseUniquenessPerProject(t *testing.T) {
	t.Parallel()

	phaseID := "ph-1"
	repo := &milestoneRepoStub{milestones: map[string]Milestone{
		"ms-existing": {
			ID:        "ms-existing",
			ProjectID: "prj-1",
			Type:      MilestonePhase,
			PhaseID:   &phaseID,
			Title:     "Design",
			DueDate:   mustDay(t, "2025-05-30"),
		},
	}}
	service := newMilestoneServiceForTest(t, repo, openProjects("prj-1", "prj-2"))

	_, err := service.CreateMilestone(context.Background(), MilestoneInput{
		ProjectID: "prj-1",
		Type:      MilestonePhase,
		PhaseID:   &phaseID,
		DueDate:   mustDay(t, "2025-06-30"),
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := vErr.FieldErrors["phase_id"]; !ok {
		t.Fatalf("expected phase_id error, got %v", vErr.FieldErrors)
	}

	// The same phase is free in another project.
	if _, err := service.CreateMilestone(context.Background(), MilestoneInput{
		ProjectID: "prj-2",
		Type:      MilestonePhase,
		PhaseID:   &phaseID,
		DueDate:   mustDay(t, "2025-06-30"),
	}); err != nil {
		t.Fatalf("create in other project: %v", err)
	}
}

func TestMilestoneService_CustomMilestoneNeedsTitle(t *testing.T) {
	t.Parallel()

	repo := &milestoneRepoStub{}
	service := newMilestoneServiceForTest(t, repo, openProjects("prj-1"))

	_, err := service.CreateMilestone(context.Background(), MilestoneInput{
		ProjectID: "prj-1",
		Type:      MilestoneCustom,
		DueDate:   mustDay(t, "2025-06-16"),
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := vErr.FieldErrors["title"]; !ok {
		t.Fatalf("expected title error, got %v", vErr.FieldErrors)
	}
}

func TestMilestoneService_CompletionStampsTimestamp(t *testing.T) {
	t.Parallel()

	repo := &milestoneRepoStub{milestones: map[string]Milestone{
		"ms-1": {
			ID:        "ms-1",
			ProjectID: "prj-1",
			Type:      MilestoneCustom,
			Title:     "Go-live",
			DueDate:   mustDay(t, "2025-06-16"),
		},
	}}
	service := newMilestoneServiceForTest(t, repo, openProjects("prj-1"))

	completed := true
	updated, err := service.UpdateMilestone(context.Background(), "ms-1", MilestoneUpdate{Completed: &completed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed || updated.CompletedAt == nil {
		t.Fatal("completing must set the completion timestamp")
	}

	repo.milestones["ms-1"] = updated
	reopened := false
	updated, err = service.UpdateMilestone(context.Background(), "ms-1", MilestoneUpdate{Completed: &reopened})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if updated.Completed || updated.CompletedAt != nil {
		t.Fatal("reopening must clear the completion timestamp")
	}
}

func TestMilestoneService_UnknownType(t *testing.T) {
	t.Parallel()

	repo := &milestoneRepoStub{}
	service := newMilestoneServiceForTest(t, repo, openProjects("prj-1"))

	_, err := service.CreateMilestone(context.Background(), MilestoneInput{
		ProjectID: "prj-1",
		Type:      "deadline",
		Title:     "Whatever",
		DueDate:   mustDay(t, "2025-06-16"),
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := vErr.FieldErrors["type"]; !ok {
		t.Fatalf("expected type error, got %v", vErr.FieldErrors)
	}
}
