package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/resource-planner/internal/application"
)

type milestoneService interface {
	CreateMilestone(ctx context.Context, input application.MilestoneInput) (application.Milestone, error)
	UpdateMilestone(ctx context.Context, id string, upd application.MilestoneUpdate) (application.Milestone, error)
	DeleteMilestone(ctx context.Context, id string) error
	ListMilestones(ctx context.Context, projectID string) ([]application.Milestone, error)
}

type MilestoneHandler struct {
	service   milestoneService
	responder responder
}

func NewMilestoneHandler(service milestoneService, logger *slog.Logger) *MilestoneHandler {
	return &MilestoneHandler{
		service:   service,
		responder: newResponder(logger),
	}
}

func (h *MilestoneHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projectID, ok := ProjectIDFromContext(r.Context())
	if !ok || strings.TrimSpace(projectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidProjectID)
		return
	}

	milestones, err := h.service.ListMilestones(r.Context(), projectID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]milestoneDTO, 0, len(milestones))
	for _, milestone := range milestones {
		out = append(out, toMilestoneDTO(milestone))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, milestoneListResponse{Milestones: out})
}

func (h *MilestoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req milestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	created, err := h.service.CreateMilestone(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, milestoneResponse{Milestone: toMilestoneDTO(created)})
}

func (h *MilestoneHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	milestoneID, ok := MilestoneIDFromContext(r.Context())
	if !ok || strings.TrimSpace(milestoneID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMilestoneID)
		return
	}

	var req milestoneUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	upd, err := req.toUpdate()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.service.UpdateMilestone(r.Context(), milestoneID, upd)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, milestoneResponse{Milestone: toMilestoneDTO(updated)})
}

func (h *MilestoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	milestoneID, ok := MilestoneIDFromContext(r.Context())
	if !ok || strings.TrimSpace(milestoneID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMilestoneID)
		return
	}

	if err := h.service.DeleteMilestone(r.Context(), milestoneID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type milestoneRequest struct {
	ProjectID   string  `json:"project_id"`
	Type        string  `json:"type"`
	PhaseID     *string `json:"phase_id"`
	Title       string  `json:"title"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	Description string  `json:"description"`
	DueDate     string  `json:"due_date"`
	Completed   bool    `json:"completed"`
}

func (r milestoneRequest) toInput() (application.MilestoneInput, error) {
	dueDate, err := parseRequestDay("due_date", r.DueDate)
	if err != nil {
		return application.MilestoneInput{}, err
	}
	return application.MilestoneInput{
		ProjectID:   r.ProjectID,
		Type:        application.MilestoneType(r.Type),
		PhaseID:     r.PhaseID,
		Title:       r.Title,
		Icon:        r.Icon,
		Color:       r.Color,
		Description: r.Description,
		DueDate:     dueDate,
		Completed:   r.Completed,
	}, nil
}

type milestoneUpdateRequest struct {
	Title       *string `json:"title"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Completed   *bool   `json:"completed"`
}

func (r milestoneUpdateRequest) toUpdate() (application.MilestoneUpdate, error) {
	upd := application.MilestoneUpdate{
		Title:       r.Title,
		Icon:        r.Icon,
		Color:       r.Color,
		Description: r.Description,
		Completed:   r.Completed,
	}
	if r.DueDate != nil {
		dueDate, err := parseRequestDay("due_date", *r.DueDate)
		if err != nil {
			return application.MilestoneUpdate{}, err
		}
		upd.DueDate = &dueDate
	}
	return upd, nil
}

type milestoneResponse struct {
	Milestone milestoneDTO `json:"milestone"`
}

type milestoneListResponse struct {
	Milestones []milestoneDTO `json:"milestones"`
}
