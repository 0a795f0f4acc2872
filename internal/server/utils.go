package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"moneyviz/internal/export"
	"moneyviz/internal/factory"
	"moneyviz/internal/storage"
	"moneyviz/internal/view"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps the errors handlers see onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, view.ErrUnknownView),
		errors.Is(err, factory.ErrNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, view.ErrInvalidTransaction),
		errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, export.ErrNoData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, view.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, view.ErrStale):
		return http.StatusConflict
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}
