package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Planner     *PlannerHandler
	Allocations *AllocationHandler
	Timelines   *TimelineHandler
	Activities  *ActivityHandler
	Milestones  *MilestoneHandler
	Directory   *DirectoryHandler
	Metrics     http.Handler
	Health      http.HandlerFunc
	Middleware  []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Planner != nil {
		mux.HandleFunc("/planner", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Planner.Window(w, r)
		})
	}

	if cfg.Allocations != nil {
		mux.HandleFunc("/allocations", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Allocations.Create(w, r)
		})
		mux.HandleFunc("/allocations/bulk-move", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Allocations.BulkMove(w, r)
		})
		mux.HandleFunc("/allocations/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/allocations/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithAllocationID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.Allocations.Update(w, r)
			case http.MethodDelete:
				cfg.Allocations.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	mux.HandleFunc("/projects/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/projects/")
		projectID, subresource, found := strings.Cut(rest, "/")
		if !found || projectID == "" {
			http.NotFound(w, r)
			return
		}
		ctx := ContextWithProjectID(r.Context(), projectID)
		r = r.WithContext(ctx)
		switch subresource {
		case "timeline":
			if cfg.Timelines == nil {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Timelines.Timeline(w, r)
		case "burndown":
			if cfg.Timelines == nil {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Timelines.Burndown(w, r)
		case "activities":
			if cfg.Activities == nil {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Activities.ListByProject(w, r)
		case "milestones":
			if cfg.Milestones == nil {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Milestones.ListByProject(w, r)
		default:
			http.NotFound(w, r)
		}
	})

	if cfg.Activities != nil {
		mux.HandleFunc("/activities", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Activities.Create(w, r)
		})
		mux.HandleFunc("/activities/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/activities/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithActivityID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.Activities.Update(w, r)
			case http.MethodDelete:
				cfg.Activities.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Milestones != nil {
		mux.HandleFunc("/milestones", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Milestones.Create(w, r)
		})
		mux.HandleFunc("/milestones/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/milestones/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithMilestoneID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.Milestones.Update(w, r)
			case http.MethodDelete:
				cfg.Milestones.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Directory != nil {
		mux.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Directory.ListEmployees(w, r)
		})
		mux.HandleFunc("/projects", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Directory.ListProjects(w, r)
		})
		mux.HandleFunc("/phases", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Directory.ListPhases(w, r)
		})
	}

	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}

	if cfg.Health != nil {
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Health(w, r)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
