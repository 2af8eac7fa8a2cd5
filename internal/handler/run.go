package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/python-playground/internal/apperror"
	"github.com/sakif/python-playground/internal/identity"
	"github.com/sakif/python-playground/internal/locale"
	"github.com/sakif/python-playground/internal/model"
	"github.com/sakif/python-playground/internal/ratelimit"
)

// MaxBodyBytes is how much of a /run body is read. Anything beyond it is
// ignored, which normally leaves invalid JSON behind.
const MaxBodyBytes = 100_000

// Executor runs an admitted, validated request.
type Executor interface {
	Execute(ctx context.Context, req model.ExecutionRequest) *model.ExecutionOutcome
}

// Admitter decides whether a client may submit another run.
type Admitter interface {
	Allow(identity string) ratelimit.Decision
}

// RunHandler serves POST /run.
type RunHandler struct {
	exec     Executor
	admitter Admitter
	denied   func() // called on every rate-limit denial; may be nil
	logger   *slog.Logger
}

// NewRunHandler creates a RunHandler. onDenied, when non-nil, is called for
// every request turned away by the admitter.
func NewRunHandler(exec Executor, admitter Admitter, onDenied func(), logger *slog.Logger) *RunHandler {
	return &RunHandler{
		exec:     exec,
		admitter: admitter,
		denied:   onDenied,
		logger:   logger,
	}
}

// HandleRun admits the client, validates the body and runs the code.
// Admission comes first: a denied request is never parsed.
func (h *RunHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	client := identity.FromContext(r.Context())
	if client == "" {
		client = identity.FromRequest(r)
	}

	if d := h.admitter.Allow(client); !d.Allowed {
		h.logger.Warn("rate limit exceeded",
			slog.String("client", client),
			slog.Int("retryAfter", d.RetryAfter),
		)
		if h.denied != nil {
			h.denied()
		}
		writeError(w, apperror.RateLimited(d.RetryAfter))
		return
	}

	req, err := decodeRunRequest(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.exec.Execute(r.Context(), req))
}

// decodeRunRequest reads and validates a /run body. The fields are checked
// one at a time so the student gets a message about the first wrong one.
func decodeRunRequest(body io.Reader) (model.ExecutionRequest, error) {
	raw, err := io.ReadAll(io.LimitReader(body, MaxBodyBytes))
	if err != nil {
		return model.ExecutionRequest{}, apperror.ValidationFailed("", locale.InvalidRequest)
	}
	if len(raw) == 0 {
		return model.ExecutionRequest{}, apperror.ValidationFailed("", locale.EmptyRequest)
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return model.ExecutionRequest{}, apperror.ValidationFailed("", locale.MalformedJSON)
	}
	fields, ok := payload.(map[string]any)
	if !ok {
		return model.ExecutionRequest{}, apperror.ValidationFailed("", locale.InvalidRequest)
	}

	var req model.ExecutionRequest
	if v, present := fields["code"]; present {
		if req.Code, ok = v.(string); !ok {
			return model.ExecutionRequest{}, apperror.ValidationFailed("code", locale.CodeNotString)
		}
	}
	if v, present := fields["stdin"]; present {
		if req.Stdin, ok = v.(string); !ok {
			return model.ExecutionRequest{}, apperror.ValidationFailed("stdin", locale.StdinNotString)
		}
	}
	if v, present := fields["strip_input_prompts"]; present {
		if req.StripInputPrompts, ok = v.(bool); !ok {
			return model.ExecutionRequest{}, apperror.ValidationFailed("strip_input_prompts", locale.StripFlagNotBool)
		}
	}

	if strings.TrimSpace(req.Code) == "" {
		return model.ExecutionRequest{}, apperror.ValidationFailed("code", locale.EmptyCode)
	}
	return req, nil
}
