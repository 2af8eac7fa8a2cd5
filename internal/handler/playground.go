// Package handler contains the HTTP handlers of the playground. Handlers
// parse requests, call the service layer and write responses; they hold
// no business logic.
package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/sakif/python-playground/internal/executor"
	"github.com/sakif/python-playground/internal/output"
)

// PlaygroundHandler renders the playground page. Templates are parsed once
// at startup.
type PlaygroundHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewPlaygroundHandler parses base.html and playground.html from
// templateDir. playground.html fills the "content" block of base.html.
func NewPlaygroundHandler(templateDir string, logger *slog.Logger) (*PlaygroundHandler, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "playground.html"),
	)
	if err != nil {
		return nil, err
	}

	return &PlaygroundHandler{
		templates: tmpl,
		logger:    logger,
	}, nil
}

// HandlePlayground serves GET /.
func (h *PlaygroundHandler) HandlePlayground(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":          "Python Oyun Alanı",
		"TimeoutSeconds": int(executor.Timeout.Seconds()),
		"MaxOutputChars": output.MaxChars,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
