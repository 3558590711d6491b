package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/resource-planner/internal/persistence"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation(dateLayout, value, time.UTC)
	require.NoError(t, err)
	return parsed
}

func seedEmployee(t *testing.T, db *DB, id string) {
	t.Helper()
	target := 37.5
	err := NewEmployeeRepository(db).CreateEmployee(context.Background(), persistence.Employee{
		ID:           id,
		DisplayName:  "Employee " + id,
		WeeklyTarget: &target,
		Employment:   "salaried",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	require.NoError(t, err)
}

func seedProject(t *testing.T, db *DB, id string) {
	t.Helper()
	err := NewProjectRepository(db).CreateProject(context.Background(), persistence.Project{
		ID:        id,
		Name:      "Project " + id,
		Color:     "#1f6feb",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func TestAllocationRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewAllocationRepository(db)

	seedEmployee(t, db, "emp-1")
	seedEmployee(t, db, "emp-2")
	seedProject(t, db, "prj-1")
	seedProject(t, db, "prj-2")

	rate := 4.0
	first := persistence.Allocation{
		ID:          "alloc-1",
		EmployeeID:  "emp-1",
		ProjectID:   "prj-1",
		StartDate:   day(t, "2025-03-03"),
		EndDate:     day(t, "2025-03-07"),
		HoursPerDay: &rate,
		Status:      "tentative",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, repo.CreateAllocation(ctx, first))

	total := 40.0
	second := persistence.Allocation{
		ID:         "alloc-2",
		EmployeeID: "emp-2",
		ProjectID:  "prj-2",
		StartDate:  day(t, "2025-03-10"),
		EndDate:    day(t, "2025-03-21"),
		TotalHours: &total,
		Status:     "confirmed",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, repo.CreateAllocation(ctx, second))

	t.Run("get round-trips dates and hour mode", func(t *testing.T) {
		got, err := repo.GetAllocation(ctx, "alloc-1")
		require.NoError(t, err)
		assert.Equal(t, day(t, "2025-03-03"), got.StartDate)
		assert.Equal(t, day(t, "2025-03-07"), got.EndDate)
		require.NotNil(t, got.HoursPerDay)
		assert.Equal(t, 4.0, *got.HoursPerDay)
		assert.Nil(t, got.TotalHours)
	})

	t.Run("get unknown id", func(t *testing.T) {
		_, err := repo.GetAllocation(ctx, "missing")
		assert.ErrorIs(t, err, persistence.ErrNotFound)
	})

	t.Run("list filters by employee", func(t *testing.T) {
		got, err := repo.ListAllocations(ctx, persistence.AllocationFilter{EmployeeID: "emp-2"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "alloc-2", got[0].ID)
	})

	t.Run("list filters by window overlap", func(t *testing.T) {
		from := day(t, "2025-03-06")
		to := day(t, "2025-03-11")
		got, err := repo.ListAllocations(ctx, persistence.AllocationFilter{From: &from, To: &to})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		from = day(t, "2025-03-24")
		to = day(t, "2025-03-28")
		got, err = repo.ListAllocations(ctx, persistence.AllocationFilter{From: &from, To: &to})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("update rewrites the row", func(t *testing.T) {
		updated := first
		updated.EndDate = day(t, "2025-03-05")
		updated.Status = "confirmed"
		require.NoError(t, repo.UpdateAllocation(ctx, updated))

		got, err := repo.GetAllocation(ctx, "alloc-1")
		require.NoError(t, err)
		assert.Equal(t, day(t, "2025-03-05"), got.EndDate)
		assert.Equal(t, "confirmed", got.Status)
	})

	t.Run("update unknown id", func(t *testing.T) {
		missing := first
		missing.ID = "missing"
		assert.ErrorIs(t, repo.UpdateAllocation(ctx, missing), persistence.ErrNotFound)
	})

	t.Run("foreign keys are enforced", func(t *testing.T) {
		orphan := first
		orphan.ID = "alloc-orphan"
		orphan.EmployeeID = "ghost"
		err := repo.CreateAllocation(ctx, orphan)
		assert.ErrorIs(t, err, persistence.ErrForeignKeyViolation)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		require.NoError(t, repo.DeleteAllocation(ctx, "alloc-2"))
		_, err := repo.GetAllocation(ctx, "alloc-2")
		assert.ErrorIs(t, err, persistence.ErrNotFound)
		assert.ErrorIs(t, repo.DeleteAllocation(ctx, "alloc-2"), persistence.ErrNotFound)
	})
}

func TestEmployeeRepositoryVacations(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewEmployeeRepository(db)

	seedEmployee(t, db, "emp-1")

	require.NoError(t, repo.CreateVacation(ctx, persistence.Vacation{
		ID:         "vac-1",
		EmployeeID: "emp-1",
		StartDate:  day(t, "2025-07-07"),
		EndDate:    day(t, "2025-07-18"),
		Category:   "vacation",
	}))
	require.NoError(t, repo.CreateVacation(ctx, persistence.Vacation{
		ID:         "vac-2",
		EmployeeID: "emp-1",
		StartDate:  day(t, "2025-12-24"),
		EndDate:    day(t, "2025-12-31"),
		Category:   "sick",
	}))

	got, err := repo.ListVacations(ctx, day(t, "2025-07-14"), day(t, "2025-07-25"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "vac-1", got[0].ID)
	assert.Equal(t, "vacation", got[0].Category)

	got, err = repo.ListVacations(ctx, day(t, "2025-01-01"), day(t, "2025-12-31"))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestProjectRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewProjectRepository(db)

	budget := 320.0
	client := "Acme GmbH"
	require.NoError(t, repo.CreateProject(ctx, persistence.Project{
		ID:          "prj-1",
		Name:        "Website relaunch",
		Color:       "#1f6feb",
		Client:      &client,
		BudgetHours: &budget,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}))
	require.NoError(t, repo.CreateProject(ctx, persistence.Project{
		ID:        "prj-2",
		Name:      "Archived effort",
		Color:     "#6e7781",
		Archived:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}))

	t.Run("get round-trips optional fields", func(t *testing.T) {
		got, err := repo.GetProject(ctx, "prj-1")
		require.NoError(t, err)
		require.NotNil(t, got.Client)
		assert.Equal(t, "Acme GmbH", *got.Client)
		require.NotNil(t, got.BudgetHours)
		assert.Equal(t, 320.0, *got.BudgetHours)
		assert.False(t, got.Archived)
	})

	t.Run("list skips archived by default", func(t *testing.T) {
		got, err := repo.ListProjects(ctx, false)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "prj-1", got[0].ID)

		got, err = repo.ListProjects(ctx, true)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("update flips lock flag", func(t *testing.T) {
		got, err := repo.GetProject(ctx, "prj-1")
		require.NoError(t, err)
		got.Locked = true
		require.NoError(t, repo.UpdateProject(ctx, got))

		got, err = repo.GetProject(ctx, "prj-1")
		require.NoError(t, err)
		assert.True(t, got.Locked)
	})
}

func TestMilestoneRepositoryPhaseUniqueness(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewMilestoneRepository(db)

	seedProject(t, db, "prj-1")
	_, err := db.db.ExecContext(ctx,
		`INSERT INTO phases (id, name, color, position) VALUES ('ph-1', 'Design', '#d29922', 1)`)
	require.NoError(t, err)

	phase := "ph-1"
	base := persistence.Milestone{
		ProjectID: "prj-1",
		Type:      "phase",
		PhaseID:   &phase,
		Title:     "Design",
		DueDate:   day(t, "2025-05-30"),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	first := base
	first.ID = "ms-1"
	require.NoError(t, repo.CreateMilestone(ctx, first))

	duplicate := base
	duplicate.ID = "ms-2"
	assert.ErrorIs(t, repo.CreateMilestone(ctx, duplicate), persistence.ErrDuplicate)

	custom := persistence.Milestone{
		ID:        "ms-3",
		ProjectID: "prj-1",
		Type:      "custom",
		Title:     "Go-live",
		DueDate:   day(t, "2025-06-16"),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.CreateMilestone(ctx, custom))

	got, err := repo.ListMilestones(ctx, "prj-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSettingsRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewSettingsRepository(db)

	got, err := repo.HolidaySetting(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.DisabledCodes)
	assert.Empty(t, got.Custom)

	year := 2025
	setting := persistence.HolidaySetting{
		DisabledCodes: []string{"christmas_eve", "new_years_eve"},
		Custom: []persistence.CustomHolidayRecord{
			{ID: "ch-1", Name: "Company day", Month: 6, Day: 2},
			{ID: "ch-2", Name: "Bridge day", Month: 5, Day: 2, Year: &year},
		},
	}
	require.NoError(t, repo.SaveHolidaySetting(ctx, setting))

	got, err = repo.HolidaySetting(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"christmas_eve", "new_years_eve"}, got.DisabledCodes)
	require.Len(t, got.Custom, 2)
	assert.Nil(t, got.Custom[0].Year)
	require.NotNil(t, got.Custom[1].Year)
	assert.Equal(t, 2025, *got.Custom[1].Year)

	// Saving again replaces rather than appends.
	require.NoError(t, repo.SaveHolidaySetting(ctx, persistence.HolidaySetting{}))
	got, err = repo.HolidaySetting(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.DisabledCodes)
	assert.Empty(t, got.Custom)
}

func TestTimeEntryRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewTimeEntryRepository(db)

	seedEmployee(t, db, "emp-1")
	seedProject(t, db, "prj-1")
	seedProject(t, db, "prj-2")

	entries := []persistence.TimeEntry{
		{ID: "te-1", EmployeeID: "emp-1", ProjectID: "prj-1", Day: day(t, "2025-03-03"), Hours: 6},
		{ID: "te-2", EmployeeID: "emp-1", ProjectID: "prj-1", Day: day(t, "2025-03-04"), Hours: 7.5},
		{ID: "te-3", EmployeeID: "emp-1", ProjectID: "prj-2", Day: day(t, "2025-03-04"), Hours: 1.5},
	}
	for _, entry := range entries {
		require.NoError(t, repo.CreateTimeEntry(ctx, entry))
	}

	got, err := repo.ListTimeEntries(ctx, "prj-1", "", day(t, "2025-03-01"), day(t, "2025-03-31"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 6.0, got[0].Hours)
	assert.Equal(t, 7.5, got[1].Hours)

	got, err = repo.ListTimeEntries(ctx, "", "emp-1", day(t, "2025-03-04"), day(t, "2025-03-04"))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
