package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/resource-planner/internal/application"
)

type activityService interface {
	CreateActivity(ctx context.Context, input application.ActivityInput) (application.Activity, error)
	UpdateActivity(ctx context.Context, id string, upd application.ActivityUpdate) (application.Activity, error)
	DeleteActivity(ctx context.Context, id string) error
	ListActivities(ctx context.Context, projectID string) ([]application.Activity, error)
}

type ActivityHandler struct {
	service   activityService
	responder responder
}

func NewActivityHandler(service activityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service:   service,
		responder: newResponder(logger),
	}
}

func (h *ActivityHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projectID, ok := ProjectIDFromContext(r.Context())
	if !ok || strings.TrimSpace(projectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidProjectID)
		return
	}

	activities, err := h.service.ListActivities(r.Context(), projectID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]activityDTO, 0, len(activities))
	for _, activity := range activities {
		out = append(out, toActivityDTO(activity))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, activityListResponse{Activities: out})
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	created, err := h.service.CreateActivity(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, activityResponse{Activity: toActivityDTO(created)})
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activityID, ok := ActivityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(activityID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidActivityID)
		return
	}

	var req activityUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	upd, err := req.toUpdate()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.service.UpdateActivity(r.Context(), activityID, upd)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, activityResponse{Activity: toActivityDTO(updated)})
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activityID, ok := ActivityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(activityID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidActivityID)
		return
	}

	if err := h.service.DeleteActivity(r.Context(), activityID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type activityRequest struct {
	ProjectID  string  `json:"project_id"`
	Name       string  `json:"name"`
	PhaseID    *string `json:"phase_id"`
	Category   string  `json:"category"`
	AssigneeID *string `json:"assignee_id"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Status     string  `json:"status"`
	Color      *string `json:"color"`
	Note       string  `json:"note"`
}

func (r activityRequest) toInput() (application.ActivityInput, error) {
	start, err := parseRequestDay("start", r.Start)
	if err != nil {
		return application.ActivityInput{}, err
	}
	end, err := parseRequestDay("end", r.End)
	if err != nil {
		return application.ActivityInput{}, err
	}
	return application.ActivityInput{
		ProjectID:  r.ProjectID,
		Name:       r.Name,
		PhaseID:    r.PhaseID,
		Category:   r.Category,
		AssigneeID: r.AssigneeID,
		Start:      start,
		End:        end,
		Status:     application.ActivityStatus(r.Status),
		Color:      r.Color,
		Note:       r.Note,
	}, nil
}

type activityUpdateRequest struct {
	Name       *string `json:"name"`
	PhaseID    *string `json:"phase_id"`
	Category   *string `json:"category"`
	AssigneeID *string `json:"assignee_id"`
	Start      *string `json:"start"`
	End        *string `json:"end"`
	Status     *string `json:"status"`
	Color      *string `json:"color"`
	Note       *string `json:"note"`
}

func (r activityUpdateRequest) toUpdate() (application.ActivityUpdate, error) {
	upd := application.ActivityUpdate{
		Name:       r.Name,
		PhaseID:    r.PhaseID,
		Category:   r.Category,
		AssigneeID: r.AssigneeID,
		Color:      r.Color,
		Note:       r.Note,
	}
	if r.Start != nil {
		start, err := parseRequestDay("start", *r.Start)
		if err != nil {
			return application.ActivityUpdate{}, err
		}
		upd.Start = &start
	}
	if r.End != nil {
		end, err := parseRequestDay("end", *r.End)
		if err != nil {
			return application.ActivityUpdate{}, err
		}
		upd.End = &end
	}
	if r.Status != nil {
		status := application.ActivityStatus(*r.Status)
		upd.Status = &status
	}
	return upd, nil
}

type activityResponse struct {
	Activity activityDTO `json:"activity"`
}

type activityListResponse struct {
	Activities []activityDTO `json:"activities"`
}
