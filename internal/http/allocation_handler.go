package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/resource-planner/internal/application"
	"github.com/example/resource-planner/internal/dateutil"
	"github.com/example/resource-planner/internal/planner"
)

type allocationService interface {
	CreateAllocation(ctx context.Context, input application.AllocationInput) (application.Allocation, error)
	UpdateAllocation(ctx context.Context, params application.UpdateAllocationParams) (application.Allocation, error)
	DeleteAllocation(ctx context.Context, params application.DeleteAllocationParams) (application.MutationOutcome, error)
	BulkMove(ctx context.Context, params application.BulkMoveParams) (application.MutationOutcome, error)
}

type AllocationHandler struct {
	service   allocationService
	responder responder
	logger    *slog.Logger
}

func NewAllocationHandler(service allocationService, logger *slog.Logger) *AllocationHandler {
	return &AllocationHandler{
		service:   service,
		responder: newResponder(logger),
		logger:    defaultLogger(logger),
	}
}

func (h *AllocationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "AllocationHandler", operation, attrs...)
}

func (h *AllocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req allocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	created, err := h.service.CreateAllocation(r.Context(), input)
	if err != nil {
		var cErr *application.CommitError
		if errors.As(err, &cErr) {
			h.responder.handleCommitError(r.Context(), w, cErr, toAllocationDTO(created))
			return
		}
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "create", "allocation_id", created.ID).InfoContext(r.Context(), "allocation created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, allocationResponse{Allocation: toAllocationDTO(created)})
}

func (h *AllocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	allocationID, ok := AllocationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(allocationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAllocationID)
		return
	}

	var req allocationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	params, err := req.toParams(allocationID)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.service.UpdateAllocation(r.Context(), params)
	if err != nil {
		var cErr *application.CommitError
		if errors.As(err, &cErr) {
			h.responder.handleCommitError(r.Context(), w, cErr, toAllocationDTO(updated))
			return
		}
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, allocationResponse{Allocation: toAllocationDTO(updated)})
}

func (h *AllocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	allocationID, ok := AllocationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(allocationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAllocationID)
		return
	}

	params := application.DeleteAllocationParams{
		AllocationID: allocationID,
		Redistribute: r.URL.Query().Get("redistribute") == "true",
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := dateutil.ParseDay(raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, fmt.Errorf("invalid date %q", raw))
			return
		}
		params.Date = &date
	}

	outcome, err := h.service.DeleteAllocation(r.Context(), params)
	if err != nil {
		var cErr *application.CommitError
		if errors.As(err, &cErr) {
			h.responder.handleCommitError(r.Context(), w, cErr, toOutcomeDTO(outcome))
			return
		}
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if len(outcome.Upserted) == 0 {
		h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toOutcomeDTO(outcome))
}

func (h *AllocationHandler) BulkMove(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bulkMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	outcome, err := h.service.BulkMove(r.Context(), application.BulkMoveParams{
		AllocationIDs: req.AllocationIDs,
		DeltaDays:     req.DeltaDays,
	})
	if err != nil {
		var cErr *application.CommitError
		if errors.As(err, &cErr) {
			h.responder.handleCommitError(r.Context(), w, cErr, toOutcomeDTO(outcome))
			return
		}
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "bulk_move", "moved", len(outcome.Upserted)).InfoContext(r.Context(), "allocations moved")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toOutcomeDTO(outcome))
}

type allocationRequest struct {
	EmployeeID  string   `json:"employee_id"`
	ProjectID   string   `json:"project_id"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	HoursPerDay *float64 `json:"hours_per_day"`
	TotalHours  *float64 `json:"total_hours"`
	Status      string   `json:"status"`
	Note        string   `json:"note"`
}

func (r allocationRequest) toInput() (application.AllocationInput, error) {
	start, err := parseRequestDay("start", r.Start)
	if err != nil {
		return application.AllocationInput{}, err
	}
	end, err := parseRequestDay("end", r.End)
	if err != nil {
		return application.AllocationInput{}, err
	}
	return application.AllocationInput{
		EmployeeID:  r.EmployeeID,
		ProjectID:   r.ProjectID,
		Start:       start,
		End:         end,
		HoursPerDay: r.HoursPerDay,
		TotalHours:  r.TotalHours,
		Status:      planner.AllocationStatus(r.Status),
		Note:        r.Note,
	}, nil
}

type allocationUpdateRequest struct {
	Start       *string  `json:"start"`
	End         *string  `json:"end"`
	HoursPerDay *float64 `json:"hours_per_day"`
	TotalHours  *float64 `json:"total_hours"`
	Status      *string  `json:"status"`
	Note        *string  `json:"note"`
	EditDate    *string  `json:"edit_date"`
}

func (r allocationUpdateRequest) toParams(allocationID string) (application.UpdateAllocationParams, error) {
	params := application.UpdateAllocationParams{
		AllocationID: allocationID,
		Input: application.AllocationUpdate{
			HoursPerDay: r.HoursPerDay,
			TotalHours:  r.TotalHours,
			Note:        r.Note,
		},
	}
	if r.Start != nil {
		start, err := parseRequestDay("start", *r.Start)
		if err != nil {
			return application.UpdateAllocationParams{}, err
		}
		params.Input.Start = &start
	}
	if r.End != nil {
		end, err := parseRequestDay("end", *r.End)
		if err != nil {
			return application.UpdateAllocationParams{}, err
		}
		params.Input.End = &end
	}
	if r.Status != nil {
		status := planner.AllocationStatus(*r.Status)
		params.Input.Status = &status
	}
	if r.EditDate != nil {
		editDate, err := parseRequestDay("edit_date", *r.EditDate)
		if err != nil {
			return application.UpdateAllocationParams{}, err
		}
		params.EditDate = &editDate
	}
	return params, nil
}

type bulkMoveRequest struct {
	AllocationIDs []string `json:"allocation_ids"`
	DeltaDays     int      `json:"delta_days"`
}

type allocationDTO struct {
	ID          string   `json:"id"`
	EmployeeID  string   `json:"employee_id"`
	ProjectID   string   `json:"project_id"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	HoursPerDay *float64 `json:"hours_per_day,omitempty"`
	TotalHours  *float64 `json:"total_hours,omitempty"`
	Status      string   `json:"status"`
	Note        string   `json:"note,omitempty"`
}

type allocationResponse struct {
	Allocation allocationDTO `json:"allocation"`
}

type outcomeDTO struct {
	Upserted []allocationDTO `json:"upserted"`
	Deleted  []string        `json:"deleted,omitempty"`
}

func toAllocationDTO(alloc application.Allocation) allocationDTO {
	return allocationDTO{
		ID:          alloc.ID,
		EmployeeID:  alloc.EmployeeID,
		ProjectID:   alloc.ProjectID,
		Start:       dateutil.FormatDay(alloc.Range.Start),
		End:         dateutil.FormatDay(alloc.Range.End),
		HoursPerDay: alloc.HoursPerDay,
		TotalHours:  alloc.TotalHours,
		Status:      string(alloc.Status),
		Note:        alloc.Note,
	}
}

func toAllocationDTOs(allocations []application.Allocation) []allocationDTO {
	out := make([]allocationDTO, 0, len(allocations))
	for _, alloc := range allocations {
		out = append(out, toAllocationDTO(alloc))
	}
	return out
}

func toOutcomeDTO(outcome application.MutationOutcome) outcomeDTO {
	return outcomeDTO{
		Upserted: toAllocationDTOs(outcome.Upserted),
		Deleted:  outcome.Deleted,
	}
}

func parseRequestDay(field, value string) (time.Time, error) {
	day, err := dateutil.ParseDay(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q, expected YYYY-MM-DD", field, value)
	}
	return day, nil
}
