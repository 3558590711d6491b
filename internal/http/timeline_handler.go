package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/resource-planner/internal/application"
	"github.com/example/resource-planner/internal/dateutil"
	"github.com/example/resource-planner/internal/timeline"
)

type timelineService interface {
	TimelineView(ctx context.Context, params application.TimelineViewParams) (application.TimelineView, error)
	Burndown(ctx context.Context, projectID string) (application.BurndownView, bool, error)
}

type TimelineHandler struct {
	service   timelineService
	responder responder
}

func NewTimelineHandler(service timelineService, logger *slog.Logger) *TimelineHandler {
	return &TimelineHandler{
		service:   service,
		responder: newResponder(logger),
	}
}

// Timeline serves a project's columnized timeline. The granularity query
// parameter accepts day, week or month and defaults to day.
func (h *TimelineHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projectID, ok := ProjectIDFromContext(r.Context())
	if !ok || strings.TrimSpace(projectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidProjectID)
		return
	}

	query := r.URL.Query()
	from, err := parseRequestDay("from", query.Get("from"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	to, err := parseRequestDay("to", query.Get("to"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	params := application.TimelineViewParams{
		ProjectID: projectID,
		From:      from,
		To:        to,
	}
	if raw := strings.TrimSpace(query.Get("granularity")); raw != "" {
		granularity, err := dateutil.ParseGranularity(raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, fmt.Errorf("invalid granularity %q", raw))
			return
		}
		params.Granularity = granularity
	}

	view, err := h.service.TimelineView(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toTimelineViewDTO(view))
}

// Burndown serves a project's weekly cumulative planned-vs-actual series.
// Projects without a budget or schedule report has_data false and no series.
func (h *TimelineHandler) Burndown(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projectID, ok := ProjectIDFromContext(r.Context())
	if !ok || strings.TrimSpace(projectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidProjectID)
		return
	}

	view, hasData, err := h.service.Burndown(r.Context(), projectID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBurndownDTO(view, hasData))
}

type projectDTO struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Color          string   `json:"color"`
	Client         string   `json:"client,omitempty"`
	BudgetHours    *float64 `json:"budget_hours,omitempty"`
	Archived       bool     `json:"archived"`
	Locked         bool     `json:"locked"`
	CurrentPhaseID *string  `json:"current_phase_id,omitempty"`
}

type columnDTO struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	ContainsToday bool   `json:"contains_today"`
}

type groupHeaderDTO struct {
	Label string `json:"label"`
	Span  int    `json:"span"`
}

type activityDTO struct {
	ID         string  `json:"id"`
	ProjectID  string  `json:"project_id"`
	Name       string  `json:"name"`
	PhaseID    *string `json:"phase_id,omitempty"`
	Category   string  `json:"category,omitempty"`
	AssigneeID *string `json:"assignee_id,omitempty"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Status     string  `json:"status"`
	Color      *string `json:"color,omitempty"`
	Note       string  `json:"note,omitempty"`
}

type milestoneDTO struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	Type        string  `json:"type"`
	PhaseID     *string `json:"phase_id,omitempty"`
	Title       string  `json:"title"`
	Icon        string  `json:"icon,omitempty"`
	Color       string  `json:"color,omitempty"`
	Description string  `json:"description,omitempty"`
	DueDate     string  `json:"due_date"`
	Completed   bool    `json:"completed"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

type timelineViewResponse struct {
	Project     projectDTO       `json:"project"`
	Granularity string           `json:"granularity"`
	Columns     []columnDTO      `json:"columns"`
	Headers     []groupHeaderDTO `json:"headers"`
	Activities  []activityDTO    `json:"activities"`
	Milestones  []milestoneDTO   `json:"milestones"`
	Allocations []allocationDTO  `json:"allocations"`
}

type burndownPointDTO struct {
	WeekStart string  `json:"week_start"`
	Planned   float64 `json:"planned"`
	Actual    float64 `json:"actual"`
}

type burndownResponse struct {
	ProjectID  string             `json:"project_id"`
	HasData    bool               `json:"has_data"`
	Schedule   *rangeDTO          `json:"schedule,omitempty"`
	Points     []burndownPointDTO `json:"points,omitempty"`
	OverBudget bool               `json:"over_budget"`
}

func toTimelineViewDTO(view application.TimelineView) timelineViewResponse {
	resp := timelineViewResponse{
		Project:     toProjectDTO(view.Project),
		Granularity: string(view.Granularity),
		Columns:     make([]columnDTO, 0, len(view.Columns)),
		Headers:     make([]groupHeaderDTO, 0, len(view.Headers)),
		Activities:  make([]activityDTO, 0, len(view.Activities)),
		Milestones:  make([]milestoneDTO, 0, len(view.Milestones)),
		Allocations: toAllocationDTOs(view.Allocations),
	}
	for _, column := range view.Columns {
		resp.Columns = append(resp.Columns, toColumnDTO(column))
	}
	for _, header := range view.Headers {
		resp.Headers = append(resp.Headers, groupHeaderDTO{Label: header.Label, Span: header.Span})
	}
	for _, activity := range view.Activities {
		resp.Activities = append(resp.Activities, toActivityDTO(activity))
	}
	for _, milestone := range view.Milestones {
		resp.Milestones = append(resp.Milestones, toMilestoneDTO(milestone))
	}
	return resp
}

func toBurndownDTO(view application.BurndownView, hasData bool) burndownResponse {
	resp := burndownResponse{
		ProjectID: view.ProjectID,
		HasData:   hasData,
	}
	if !hasData {
		return resp
	}
	schedule := toRangeDTO(view.Schedule)
	resp.Schedule = &schedule
	resp.OverBudget = view.Series.OverBudget
	resp.Points = make([]burndownPointDTO, 0, len(view.Series.Points))
	for _, point := range view.Series.Points {
		resp.Points = append(resp.Points, burndownPointDTO{
			WeekStart: dateutil.FormatDay(point.WeekStart),
			Planned:   point.Planned,
			Actual:    point.Actual,
		})
	}
	return resp
}

func toProjectDTO(project application.Project) projectDTO {
	return projectDTO{
		ID:             project.ID,
		Name:           project.Name,
		Color:          project.Color,
		Client:         project.Client,
		BudgetHours:    project.BudgetHours,
		Archived:       project.Archived,
		Locked:         project.Locked,
		CurrentPhaseID: project.CurrentPhaseID,
	}
}

func toColumnDTO(column timeline.Column) columnDTO {
	return columnDTO{
		Start:         dateutil.FormatDay(column.Start),
		End:           dateutil.FormatDay(column.End),
		ContainsToday: column.ContainsToday,
	}
}

func toActivityDTO(activity application.Activity) activityDTO {
	return activityDTO{
		ID:         activity.ID,
		ProjectID:  activity.ProjectID,
		Name:       activity.Name,
		PhaseID:    activity.PhaseID,
		Category:   activity.Category,
		AssigneeID: activity.AssigneeID,
		Start:      dateutil.FormatDay(activity.Range.Start),
		End:        dateutil.FormatDay(activity.Range.End),
		Status:     string(activity.Status),
		Color:      activity.Color,
		Note:       activity.Note,
	}
}

func toMilestoneDTO(milestone application.Milestone) milestoneDTO {
	dto := milestoneDTO{
		ID:          milestone.ID,
		ProjectID:   milestone.ProjectID,
		Type:        string(milestone.Type),
		PhaseID:     milestone.PhaseID,
		Title:       milestone.Title,
		Icon:        milestone.Icon,
		Color:       milestone.Color,
		Description: milestone.Description,
		DueDate:     dateutil.FormatDay(milestone.DueDate),
		Completed:   milestone.Completed,
	}
	if milestone.CompletedAt != nil {
		completedAt := milestone.CompletedAt.UTC().Format(time.RFC3339)
		dto.CompletedAt = &completedAt
	}
	return dto
}
