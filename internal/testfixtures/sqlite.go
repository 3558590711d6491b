package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/resource-planner/internal/persistence"
	"github.com/example/resource-planner/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	DB          *sqlite.DB
	Allocations persistence.AllocationRepository
	Employees   persistence.EmployeeRepository
	Projects    persistence.ProjectRepository
	Activities  persistence.ActivityRepository
	Milestones  persistence.MilestoneRepository
	TimeEntries persistence.TimeEntryRepository
	Settings    persistence.SettingsRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "planner.db")

	db, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := db.Migrate(context.Background()); err != nil {
		_ = db.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		DB:          db,
		Allocations: sqlite.NewAllocationRepository(db),
		Employees:   sqlite.NewEmployeeRepository(db),
		Projects:    sqlite.NewProjectRepository(db),
		Activities:  sqlite.NewActivityRepository(db),
		Milestones:  sqlite.NewMilestoneRepository(db),
		TimeEntries: sqlite.NewTimeEntryRepository(db),
		Settings:    sqlite.NewSettingsRepository(db),
		cleanup: func() {
			_ = db.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
