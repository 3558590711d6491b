package http

import (
	"context"
	"log/slog"
	"net/http"
)

// NewHealthHandler reports liveness. The ping function checks storage
// reachability; a nil ping always reports ok.
func NewHealthHandler(ping func(context.Context) error, logger *slog.Logger) http.HandlerFunc {
	log := defaultLogger(logger)
	resp := newResponder(logger)
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "health check failed", "error", err)
				resp.writeJSON(r.Context(), w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
				return
			}
		}
		resp.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

type healthResponse struct {
	Status string `json:"status"`
}
