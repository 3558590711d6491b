package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/resource-planner/internal/application"
	"github.com/example/resource-planner/internal/logging"
)

var (
	errBadRequestBody      = errors.New("the request body is not valid JSON")
	errInvalidAllocationID = errors.New("invalid allocation id")
	errInvalidProjectID    = errors.New("invalid project id")
	errInvalidActivityID   = errors.New("invalid activity id")
	errInvalidMilestoneID  = errors.New("invalid milestone id")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps application errors to responses. Commit failures
// are handled separately because they carry the locally applied state.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: statusMessage(http.StatusNotFound)})
	case errors.Is(err, application.ErrProjectLocked):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "PROJECT_LOCKED",
			Message:   "the project is locked and does not accept changes",
		})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: statusMessage(http.StatusUnprocessableEntity),
				Errors:  vErr.FieldErrors,
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: statusMessage(http.StatusInternalServerError)})
	}
}

// handleCommitError reports a persistence commit failure as 502, echoing the
// locally applied state so the client can decide whether to retry or revert.
func (r responder) handleCommitError(ctx context.Context, w http.ResponseWriter, cErr *application.CommitError, applied any) {
	r.loggerFor(ctx).ErrorContext(ctx, "commit failed after local apply", "operation", cErr.Op, "error", cErr.Err)
	r.writeJSON(ctx, w, http.StatusBadGateway, errorResponse{
		ErrorCode: "COMMIT_FAILED",
		Message:   "the change was applied locally but could not be saved",
		Applied:   applied,
	})
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "the request is malformed"
	case http.StatusNotFound:
		return "the requested resource was not found"
	case http.StatusConflict:
		return "the request conflicts with the current state"
	case http.StatusUnprocessableEntity:
		return "the input is invalid"
	case http.StatusBadGateway:
		return "the change could not be saved"
	default:
		return "an internal error occurred"
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	Applied   any               `json:"applied,omitempty"`
}
