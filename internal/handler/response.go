package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/python-playground/internal/apperror"
	"github.com/sakif/python-playground/internal/locale"
	"github.com/sakif/python-playground/internal/model"
)

// writeJSON sends a JSON response with the given status code. Headers must
// be set before the body is written.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; we can only log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status code. Errors keep the
// shape of a failed run so the playground page can show them the same way:
//
//	{"ok": false, "output": "", "error": "<message>"}
//
// Unknown errors become a 500 with a generic message; their details never
// reach the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		writeJSON(w, http.StatusInternalServerError, model.ExecutionOutcome{Error: locale.InternalServerErr})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrRateLimited):
		status = http.StatusTooManyRequests
		w.Header().Set("Retry-After", strconv.Itoa(appErr.RetryAfter))
	case errors.Is(err, apperror.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, model.ExecutionOutcome{Error: appErr.Message})
}
