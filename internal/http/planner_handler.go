package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/resource-planner/internal/application"
	"github.com/example/resource-planner/internal/dateutil"
	"github.com/example/resource-planner/internal/planner"
)

type plannerService interface {
	WindowView(ctx context.Context, params application.WindowViewParams) (application.WindowView, error)
}

type PlannerHandler struct {
	service   plannerService
	responder responder
}

func NewPlannerHandler(service plannerService, logger *slog.Logger) *PlannerHandler {
	return &PlannerHandler{
		service:   service,
		responder: newResponder(logger),
	}
}

// Window serves the planner board state for a date window. The from and to
// query parameters are required; employee_id narrows the view to one row.
func (h *PlannerHandler) Window(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
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

	view, err := h.service.WindowView(r.Context(), application.WindowViewParams{
		From:       from,
		To:         to,
		EmployeeID: strings.TrimSpace(query.Get("employee_id")),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toWindowViewDTO(view))
}

type rangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type employeeDTO struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"display_name"`
	WeeklyTarget *float64 `json:"weekly_target,omitempty"`
	Employment   string   `json:"employment"`
}

type vacationDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Category   string `json:"category"`
}

type contributionDTO struct {
	AllocationID string  `json:"allocation_id"`
	ProjectID    string  `json:"project_id"`
	Hours        float64 `json:"hours"`
}

type conflictDTO struct {
	EmployeeID    string            `json:"employee_id"`
	Start         string            `json:"start"`
	End           string            `json:"end"`
	Contributions []contributionDTO `json:"contributions"`
	TotalHours    float64           `json:"total_hours"`
	Capacity      float64           `json:"capacity"`
	Severity      float64           `json:"severity"`
	HighSeverity  bool              `json:"high_severity"`
}

type utilizationDTO struct {
	EmployeeID     string  `json:"employee_id"`
	AvailableHours float64 `json:"available_hours"`
	AllocatedHours float64 `json:"allocated_hours"`
	Utilization    float64 `json:"utilization"`
}

type windowViewResponse struct {
	Window       rangeDTO         `json:"window"`
	Employees    []employeeDTO    `json:"employees"`
	Allocations  []allocationDTO  `json:"allocations"`
	Vacations    []vacationDTO    `json:"vacations"`
	Conflicts    []conflictDTO    `json:"conflicts"`
	Utilizations []utilizationDTO `json:"utilizations"`
}

func toWindowViewDTO(view application.WindowView) windowViewResponse {
	resp := windowViewResponse{
		Window:       toRangeDTO(view.Window),
		Employees:    make([]employeeDTO, 0, len(view.Employees)),
		Allocations:  toAllocationDTOs(view.Allocations),
		Vacations:    make([]vacationDTO, 0, len(view.Vacations)),
		Conflicts:    make([]conflictDTO, 0, len(view.Conflicts)),
		Utilizations: make([]utilizationDTO, 0, len(view.Utilizations)),
	}
	for _, employee := range view.Employees {
		resp.Employees = append(resp.Employees, toEmployeeDTO(employee))
	}
	for _, vacation := range view.Vacations {
		resp.Vacations = append(resp.Vacations, vacationDTO{
			ID:         vacation.ID,
			EmployeeID: vacation.EmployeeID,
			Start:      dateutil.FormatDay(vacation.Range.Start),
			End:        dateutil.FormatDay(vacation.Range.End),
			Category:   string(vacation.Category),
		})
	}
	for _, conflict := range view.Conflicts {
		resp.Conflicts = append(resp.Conflicts, toConflictDTO(conflict))
	}
	for _, utilization := range view.Utilizations {
		resp.Utilizations = append(resp.Utilizations, utilizationDTO{
			EmployeeID:     utilization.EmployeeID,
			AvailableHours: utilization.AvailableHours,
			AllocatedHours: utilization.AllocatedHours,
			Utilization:    utilization.Utilization,
		})
	}
	return resp
}

func toRangeDTO(r dateutil.Range) rangeDTO {
	return rangeDTO{
		Start: dateutil.FormatDay(r.Start),
		End:   dateutil.FormatDay(r.End),
	}
}

func toEmployeeDTO(employee application.Employee) employeeDTO {
	return employeeDTO{
		ID:           employee.ID,
		DisplayName:  employee.DisplayName,
		WeeklyTarget: employee.WeeklyTarget,
		Employment:   string(employee.Employment),
	}
}

func toConflictDTO(conflict planner.Conflict) conflictDTO {
	dto := conflictDTO{
		EmployeeID:    conflict.EmployeeID,
		Start:         dateutil.FormatDay(conflict.Range.Start),
		End:           dateutil.FormatDay(conflict.Range.End),
		Contributions: make([]contributionDTO, 0, len(conflict.Contributions)),
		TotalHours:    conflict.TotalHours,
		Capacity:      conflict.Capacity,
		Severity:      conflict.Severity,
		HighSeverity:  conflict.HighSeverity,
	}
	for _, contribution := range conflict.Contributions {
		dto.Contributions = append(dto.Contributions, contributionDTO{
			AllocationID: contribution.AllocationID,
			ProjectID:    contribution.ProjectID,
			Hours:        contribution.Hours,
		})
	}
	return dto
}
