package http

import (
	"log/slog"
	"net/http"

	"github.com/example/resource-planner/internal/application"
)

// DirectoryHandler serves the reference listings the planner UI populates
// its pickers from.
type DirectoryHandler struct {
	employees application.EmployeeDirectory
	projects  application.ProjectCatalog
	phases    application.PhaseCatalog
	responder responder
}

func NewDirectoryHandler(employees application.EmployeeDirectory, projects application.ProjectCatalog, phases application.PhaseCatalog, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		employees: employees,
		projects:  projects,
		phases:    phases,
		responder: newResponder(logger),
	}
}

func (h *DirectoryHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.employees == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employees, err := h.employees.ListEmployees(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]employeeDTO, 0, len(employees))
	for _, employee := range employees {
		out = append(out, toEmployeeDTO(employee))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, employeeListResponse{Employees: out})
}

func (h *DirectoryHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.projects == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	includeArchived := r.URL.Query().Get("include_archived") == "true"
	projects, err := h.projects.ListProjects(r.Context(), includeArchived)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]projectDTO, 0, len(projects))
	for _, project := range projects {
		out = append(out, toProjectDTO(project))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, projectListResponse{Projects: out})
}

func (h *DirectoryHandler) ListPhases(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.phases == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	phases, err := h.phases.ListPhases(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]phaseDTO, 0, len(phases))
	for _, phase := range phases {
		out = append(out, phaseDTO{
			ID:       phase.ID,
			Name:     phase.Name,
			Color:    phase.Color,
			Position: phase.Position,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, phaseListResponse{Phases: out})
}

type phaseDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position int    `json:"position"`
}

type employeeListResponse struct {
	Employees []employeeDTO `json:"employees"`
}

type projectListResponse struct {
	Projects []projectDTO `json:"projects"`
}

type phaseListResponse struct {
	Phases []phaseDTO `json:"phases"`
}
