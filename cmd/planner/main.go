package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/resource-planner/internal/application"
	"github.com/example/resource-planner/internal/capacity"
	"github.com/example/resource-planner/internal/config"
	"github.com/example/resource-planner/internal/dateutil"
	httptransport "github.com/example/resource-planner/internal/http"
	"github.com/example/resource-planner/internal/persistence"
	"github.com/example/resource-planner/internal/persistence/sqlite"
	"github.com/example/resource-planner/internal/planner"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	holidayConfig, err := config.LoadHolidayConfig(cfg.HolidayConfigPath)
	if err != nil {
		logger.Error("failed to load holiday configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := db.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	allocationRepo := newAllocationRepositoryAdapter(sqlite.NewAllocationRepository(db))
	employeeDirectory := newEmployeeDirectoryAdapter(sqlite.NewEmployeeRepository(db))
	projectCatalog := newProjectCatalogAdapter(sqlite.NewProjectRepository(db))
	activityRepo := newActivityRepositoryAdapter(sqlite.NewActivityRepository(db))
	milestoneRepo := newMilestoneRepositoryAdapter(sqlite.NewMilestoneRepository(db))
	entrySource := newTimeEntrySourceAdapter(sqlite.NewTimeEntryRepository(db))
	holidaySource := newHolidaySourceAdapter(sqlite.NewSettingsRepository(db), holidayConfig)

	store := application.NewAllocationStore(idGenerator)
	cache := application.NewConflictCache(cfg.ConflictCacheTTL, cfg.ConflictCacheSize, now)

	allocationService := application.NewAllocationService(store, allocationRepo, employeeDirectory, projectCatalog, cache, logger, idGenerator, now)
	plannerService := application.NewPlannerService(employeeDirectory, allocationRepo, employeeDirectory, entrySource, holidaySource, cache, logger, now)
	timelineService := application.NewTimelineService(projectCatalog, activityRepo, milestoneRepo, allocationRepo, entrySource, logger, now)
	activityService := application.NewActivityService(activityRepo, projectCatalog, projectCatalog, logger, idGenerator, now)
	milestoneService := application.NewMilestoneService(milestoneRepo, projectCatalog, projectCatalog, logger, idGenerator, now)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Planner:     httptransport.NewPlannerHandler(plannerService, logger),
		Allocations: httptransport.NewAllocationHandler(allocationService, logger),
		Timelines:   httptransport.NewTimelineHandler(timelineService, logger),
		Activities:  httptransport.NewActivityHandler(activityService, logger),
		Milestones:  httptransport.NewMilestoneHandler(milestoneService, logger),
		Directory:   httptransport.NewDirectoryHandler(employeeDirectory, projectCatalog, projectCatalog, logger),
		Metrics:     promhttp.Handler(),
		Health:      httptransport.NewHealthHandler(db.Ping, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequestMetrics(),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("planner API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type allocationRepositoryAdapter struct {
	repo persistence.AllocationRepository
}

func newAllocationRepositoryAdapter(repo persistence.AllocationRepository) *allocationRepositoryAdapter {
	return &allocationRepositoryAdapter{repo: repo}
}

func (a *allocationRepositoryAdapter) CreateAllocation(ctx context.Context, allocation application.Allocation) error {
	return a.repo.CreateAllocation(ctx, toPersistenceAllocation(allocation))
}

func (a *allocationRepositoryAdapter) UpdateAllocation(ctx context.Context, allocation application.Allocation) error {
	return a.repo.UpdateAllocation(ctx, toPersistenceAllocation(allocation))
}

func (a *allocationRepositoryAdapter) DeleteAllocation(ctx context.Context, id string) error {
	return a.repo.DeleteAllocation(ctx, id)
}

func (a *allocationRepositoryAdapter) ListAllocations(ctx context.Context, employeeID string, from, to time.Time) ([]application.Allocation, error) {
	filter := persistence.AllocationFilter{EmployeeID: employeeID}
	if !from.IsZero() {
		filter.From = &from
	}
	if !to.IsZero() {
		filter.To = &to
	}
	models, err := a.repo.ListAllocations(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toApplicationAllocations(models), nil
}

func (a *allocationRepositoryAdapter) ListProjectAllocations(ctx context.Context, projectID string) ([]application.Allocation, error) {
	models, err := a.repo.ListAllocations(ctx, persistence.AllocationFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return toApplicationAllocations(models), nil
}

type employeeDirectoryAdapter struct {
	repo persistence.EmployeeRepository
}

func newEmployeeDirectoryAdapter(repo persistence.EmployeeRepository) *employeeDirectoryAdapter {
	return &employeeDirectoryAdapter{repo: repo}
}

func (a *employeeDirectoryAdapter) GetEmployee(ctx context.Context, id string) (application.Employee, error) {
	model, err := a.repo.GetEmployee(ctx, id)
	if err != nil {
		return application.Employee{}, err
	}
	return toApplicationEmployee(model), nil
}

func (a *employeeDirectoryAdapter) ListEmployees(ctx context.Context) ([]application.Employee, error) {
	models, err := a.repo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	employees := make([]application.Employee, 0, len(models))
	for _, model := range models {
		employees = append(employees, toApplicationEmployee(model))
	}
	return employees, nil
}

func (a *employeeDirectoryAdapter) ListVacations(ctx context.Context, from, to time.Time) ([]application.Vacation, error) {
	models, err := a.repo.ListVacations(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	vacations := make([]application.Vacation, 0, len(models))
	for _, model := range models {
		vacations = append(vacations, application.Vacation{
			ID:         model.ID,
			EmployeeID: model.EmployeeID,
			Range:      dateutil.Range{Start: model.StartDate, End: model.EndDate},
			Category:   application.VacationCategory(model.Category),
		})
	}
	return vacations, nil
}

type projectCatalogAdapter struct {
	repo persistence.ProjectRepository
}

func newProjectCatalogAdapter(repo persistence.ProjectRepository) *projectCatalogAdapter {
	return &projectCatalogAdapter{repo: repo}
}

func (a *projectCatalogAdapter) GetProject(ctx context.Context, id string) (application.Project, error) {
	model, err := a.repo.GetProject(ctx, id)
	if err != nil {
		return application.Project{}, err
	}
	return toApplicationProject(model), nil
}

func (a *projectCatalogAdapter) ListProjects(ctx context.Context, includeArchived bool) ([]application.Project, error) {
	models, err := a.repo.ListProjects(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	projects := make([]application.Project, 0, len(models))
	for _, model := range models {
		projects = append(projects, toApplicationProject(model))
	}
	return projects, nil
}

func (a *projectCatalogAdapter) ListPhases(ctx context.Context) ([]application.Phase, error) {
	models, err := a.repo.ListPhases(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	phases := make([]application.Phase, 0, len(models))
	for _, model := range models {
		phases = append(phases, application.Phase{
			ID:       model.ID,
			Name:     model.Name,
			Color:    model.Color,
			Position: model.Position,
		})
	}
	return phases, nil
}

type activityRepositoryAdapter struct {
	repo persistence.ActivityRepository
}

func newActivityRepositoryAdapter(repo persistence.ActivityRepository) *activityRepositoryAdapter {
	return &activityRepositoryAdapter{repo: repo}
}

func (a *activityRepositoryAdapter) CreateActivity(ctx context.Context, activity application.Activity) error {
	return a.repo.CreateActivity(ctx, toPersistenceActivity(activity))
}

func (a *activityRepositoryAdapter) UpdateActivity(ctx context.Context, activity application.Activity) error {
	return a.repo.UpdateActivity(ctx, toPersistenceActivity(activity))
}

func (a *activityRepositoryAdapter) GetActivity(ctx context.Context, id string) (application.Activity, error) {
	model, err := a.repo.GetActivity(ctx, id)
	if err != nil {
		return application.Activity{}, err
	}
	return toApplicationActivity(model), nil
}

func (a *activityRepositoryAdapter) ListActivities(ctx context.Context, projectID string) ([]application.Activity, error) {
	models, err := a.repo.ListActivities(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	activities := make([]application.Activity, 0, len(models))
	for _, model := range models {
		activities = append(activities, toApplicationActivity(model))
	}
	return activities, nil
}

func (a *activityRepositoryAdapter) DeleteActivity(ctx context.Context, id string) error {
	return a.repo.DeleteActivity(ctx, id)
}

type milestoneRepositoryAdapter struct {
	repo persistence.MilestoneRepository
}

func newMilestoneRepositoryAdapter(repo persistence.MilestoneRepository) *milestoneRepositoryAdapter {
	return &milestoneRepositoryAdapter{repo: repo}
}

func (a *milestoneRepositoryAdapter) CreateMilestone(ctx context.Context, milestone application.Milestone) error {
	return a.repo.CreateMilestone(ctx, toPersistenceMilestone(milestone))
}

func (a *milestoneRepositoryAdapter) UpdateMilestone(ctx context.Context, milestone application.Milestone) error {
	return a.repo.UpdateMilestone(ctx, toPersistenceMilestone(milestone))
}

func (a *milestoneRepositoryAdapter) GetMilestone(ctx context.Context, id string) (application.Milestone, error) {
	model, err := a.repo.GetMilestone(ctx, id)
	if err != nil {
		return application.Milestone{}, err
	}
	return toApplicationMilestone(model), nil
}

func (a *milestoneRepositoryAdapter) ListMilestones(ctx context.Context, projectID string) ([]application.Milestone, error) {
	models, err := a.repo.ListMilestones(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	milestones := make([]application.Milestone, 0, len(models))
	for _, model := range models {
		milestones = append(milestones, toApplicationMilestone(model))
	}
	return milestones, nil
}

func (a *milestoneRepositoryAdapter) DeleteMilestone(ctx context.Context, id string) error {
	return a.repo.DeleteMilestone(ctx, id)
}

type timeEntrySourceAdapter struct {
	repo persistence.TimeEntryRepository
}

func newTimeEntrySourceAdapter(repo persistence.TimeEntryRepository) *timeEntrySourceAdapter {
	return &timeEntrySourceAdapter{repo: repo}
}

func (a *timeEntrySourceAdapter) ListTimeEntries(ctx context.Context, projectID, employeeID string, from, to time.Time) ([]application.TimeEntry, error) {
	models, err := a.repo.ListTimeEntries(ctx, projectID, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	entries := make([]application.TimeEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, application.TimeEntry{
			ID:         model.ID,
			EmployeeID: model.EmployeeID,
			ProjectID:  model.ProjectID,
			Day:        model.Day,
			Hours:      model.Hours,
		})
	}
	return entries, nil
}

type holidaySourceAdapter struct {
	settings persistence.SettingsRepository
	fallback capacity.CalendarConfig
}

func newHolidaySourceAdapter(settings persistence.SettingsRepository, fallback capacity.CalendarConfig) *holidaySourceAdapter {
	return &holidaySourceAdapter{settings: settings, fallback: fallback}
}

// HolidayCalendar prefers the stored holiday setting; when storage holds
// nothing the file-based fallback applies.
func (a *holidaySourceAdapter) HolidayCalendar(ctx context.Context) (capacity.CalendarConfig, error) {
	setting, err := a.settings.HolidaySetting(ctx)
	if err != nil {
		return capacity.CalendarConfig{}, err
	}
	if len(setting.DisabledCodes) == 0 && len(setting.Custom) == 0 {
		return a.fallback, nil
	}

	cfg := capacity.CalendarConfig{DisabledCodes: setting.DisabledCodes}
	cfg.Custom = make([]capacity.CustomHoliday, 0, len(setting.Custom))
	for _, record := range setting.Custom {
		cfg.Custom = append(cfg.Custom, capacity.CustomHoliday{
			Name:  record.Name,
			Month: record.Month,
			Day:   record.Day,
			Year:  cloneInt(record.Year),
		})
	}
	return cfg, nil
}

func toApplicationAllocation(model persistence.Allocation) application.Allocation {
	allocation := application.Allocation{
		ID:          model.ID,
		EmployeeID:  model.EmployeeID,
		ProjectID:   model.ProjectID,
		Range:       dateutil.Range{Start: model.StartDate, End: model.EndDate},
		HoursPerDay: cloneFloat(model.HoursPerDay),
		TotalHours:  cloneFloat(model.TotalHours),
		Status:      planner.AllocationStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if model.Note != nil {
		allocation.Note = *model.Note
	}
	return allocation
}

func toApplicationAllocations(models []persistence.Allocation) []application.Allocation {
	if len(models) == 0 {
		return nil
	}
	allocations := make([]application.Allocation, 0, len(models))
	for _, model := range models {
		allocations = append(allocations, toApplicationAllocation(model))
	}
	return allocations
}

func toPersistenceAllocation(allocation application.Allocation) persistence.Allocation {
	model := persistence.Allocation{
		ID:          allocation.ID,
		EmployeeID:  allocation.EmployeeID,
		ProjectID:   allocation.ProjectID,
		StartDate:   allocation.Range.Start,
		EndDate:     allocation.Range.End,
		HoursPerDay: cloneFloat(allocation.HoursPerDay),
		TotalHours:  cloneFloat(allocation.TotalHours),
		Status:      string(allocation.Status),
		CreatedAt:   allocation.CreatedAt,
		UpdatedAt:   allocation.UpdatedAt,
	}
	if allocation.Note != "" {
		note := allocation.Note
		model.Note = &note
	}
	return model
}

func toApplicationEmployee(model persistence.Employee) application.Employee {
	return application.Employee{
		ID:           model.ID,
		DisplayName:  model.DisplayName,
		WeeklyTarget: cloneFloat(model.WeeklyTarget),
		Employment:   capacity.EmploymentType(model.Employment),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func toApplicationProject(model persistence.Project) application.Project {
	project := application.Project{
		ID:             model.ID,
		Name:           model.Name,
		Color:          model.Color,
		BudgetHours:    cloneFloat(model.BudgetHours),
		Archived:       model.Archived,
		Locked:         model.Locked,
		CurrentPhaseID: cloneString(model.CurrentPhaseID),
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
	if model.Client != nil {
		project.Client = *model.Client
	}
	return project
}

func toApplicationActivity(model persistence.Activity) application.Activity {
	activity := application.Activity{
		ID:         model.ID,
		ProjectID:  model.ProjectID,
		Name:       model.Name,
		PhaseID:    cloneString(model.PhaseID),
		AssigneeID: cloneString(model.AssigneeID),
		Range:      dateutil.Range{Start: model.StartDate, End: model.EndDate},
		Status:     application.ActivityStatus(model.Status),
		Color:      cloneString(model.Color),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
	if model.Category != nil {
		activity.Category = *model.Category
	}
	if model.Note != nil {
		activity.Note = *model.Note
	}
	return activity
}

func toPersistenceActivity(activity application.Activity) persistence.Activity {
	model := persistence.Activity{
		ID:         activity.ID,
		ProjectID:  activity.ProjectID,
		Name:       activity.Name,
		PhaseID:    cloneString(activity.PhaseID),
		AssigneeID: cloneString(activity.AssigneeID),
		StartDate:  activity.Range.Start,
		EndDate:    activity.Range.End,
		Status:     string(activity.Status),
		Color:      cloneString(activity.Color),
		CreatedAt:  activity.CreatedAt,
		UpdatedAt:  activity.UpdatedAt,
	}
	if activity.Category != "" {
		category := activity.Category
		model.Category = &category
	}
	if activity.Note != "" {
		note := activity.Note
		model.Note = &note
	}
	return model
}

func toApplicationMilestone(model persistence.Milestone) application.Milestone {
	milestone := application.Milestone{
		ID:          model.ID,
		ProjectID:   model.ProjectID,
		Type:        application.MilestoneType(model.Type),
		PhaseID:     cloneString(model.PhaseID),
		Title:       model.Title,
		DueDate:     model.DueDate,
		Completed:   model.Completed,
		CompletedAt: cloneTime(model.CompletedAt),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if model.Icon != nil {
		milestone.Icon = *model.Icon
	}
	if model.Color != nil {
		milestone.Color = *model.Color
	}
	if model.Description != nil {
		milestone.Description = *model.Description
	}
	return milestone
}

func toPersistenceMilestone(milestone application.Milestone) persistence.Milestone {
	model := persistence.Milestone{
		ID:          milestone.ID,
		ProjectID:   milestone.ProjectID,
		Type:        string(milestone.Type),
		PhaseID:     cloneString(milestone.PhaseID),
		Title:       milestone.Title,
		DueDate:     milestone.DueDate,
		Completed:   milestone.Completed,
		CompletedAt: cloneTime(milestone.CompletedAt),
		CreatedAt:   milestone.CreatedAt,
		UpdatedAt:   milestone.UpdatedAt,
	}
	if milestone.Icon != "" {
		icon := milestone.Icon
		model.Icon = &icon
	}
	if milestone.Color != "" {
		color := milestone.Color
		model.Color = &color
	}
	if milestone.Description != "" {
		description := milestone.Description
		model.Description = &description
	}
	return model
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
