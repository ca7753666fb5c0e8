package server

import (
	"align/errors"
	"align/observability"
	"encoding/json"
	"log/slog"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf classifies a pipeline error and picks the public message.
// Validation messages are built by this module and safe to show.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, errors.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errors.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// errorWriter renders the public error body. Internal detail is only logged.
func errorWriter(log *slog.Logger) func(w http.ResponseWriter, r *http.Request, err error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		status, msg := statusOf(err)
		l := observability.LoggerFromContext(r.Context(), log)
		if status >= http.StatusInternalServerError {
			l.Error("Request failed", "path", r.URL.Path, "error", err)
		} else {
			l.Debug("Request rejected", "path", r.URL.Path, "status", status, "error", err)
		}
		writeJSON(w, status, errorResponse{Error: msg, Success: false})
	}
}
