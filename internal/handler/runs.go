package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/python-playground/internal/apperror"
	"github.com/sakif/python-playground/internal/locale"
	"github.com/sakif/python-playground/internal/model"
	"github.com/sakif/python-playground/internal/repository"
)

// RunLister returns the newest journal entries.
type RunLister interface {
	RecentRuns(ctx context.Context, limit int) ([]model.Run, error)
}

// RunsHandler serves GET /api/runs.
type RunsHandler struct {
	runs   RunLister
	logger *slog.Logger
}

func NewRunsHandler(runs RunLister, logger *slog.Logger) *RunsHandler {
	return &RunsHandler{runs: runs, logger: logger}
}

// HandleList returns recent runs, newest first. The optional "limit" query
// parameter is clamped by the repository.
func (h *RunsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := repository.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, apperror.ValidationFailed("limit", locale.InvalidLimit))
			return
		}
		limit = n
	}

	runs, err := h.runs.RecentRuns(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// HandleHealth reports liveness.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
