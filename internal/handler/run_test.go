package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/python-playground/internal/handler"
	"github.com/sakif/python-playground/internal/identity"
	"github.com/sakif/python-playground/internal/locale"
	"github.com/sakif/python-playground/internal/model"
	"github.com/sakif/python-playground/internal/ratelimit"
)

// MockExecutor records the request it was given and returns a canned outcome.
type MockExecutor struct {
	CapturedReq model.ExecutionRequest
	Calls       int
	Return      *model.ExecutionOutcome
}

func (m *MockExecutor) Execute(_ context.Context, req model.ExecutionRequest) *model.ExecutionOutcome {
	m.CapturedReq = req
	m.Calls++
	return m.Return
}

// MockAdmitter admits or denies every request.
type MockAdmitter struct {
	Decision ratelimit.Decision
	Seen     []string
}

func (m *MockAdmitter) Allow(id string) ratelimit.Decision {
	m.Seen = append(m.Seen, id)
	return m.Decision
}

func allowAll() *MockAdmitter {
	return &MockAdmitter{Decision: ratelimit.Decision{Allowed: true}}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func postRun(t *testing.T, h *handler.RunHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:40000"
	rr := httptest.NewRecorder()
	h.HandleRun(rr, req)
	return rr
}

func decodeOutcome(t *testing.T, rr *httptest.ResponseRecorder) model.ExecutionOutcome {
	t.Helper()
	var out model.ExecutionOutcome
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func TestRunHandler_HandleRun(t *testing.T) {
	t.Run("valid execution", func(t *testing.T) {
		mockExec := &MockExecutor{Return: &model.ExecutionOutcome{OK: true, Output: "Hello World"}}
		h := handler.NewRunHandler(mockExec, allowAll(), nil, testLogger())

		rr := postRun(t, h, `{"code":"print('Hello World')","stdin":"x","strip_input_prompts":true}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.Equal(t, model.ExecutionOutcome{OK: true, Output: "Hello World"}, decodeOutcome(t, rr))
		assert.Equal(t, model.ExecutionRequest{
			Code:              "print('Hello World')",
			Stdin:             "x",
			StripInputPrompts: true,
		}, mockExec.CapturedReq)
	})

	t.Run("failed run is still 200", func(t *testing.T) {
		mockExec := &MockExecutor{Return: &model.ExecutionOutcome{Output: "a", Error: "Sıfıra bölme yapılamaz."}}
		h := handler.NewRunHandler(mockExec, allowAll(), nil, testLogger())

		rr := postRun(t, h, `{"code":"print('a'); 1/0"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		out := decodeOutcome(t, rr)
		assert.False(t, out.OK)
		assert.Equal(t, "a", out.Output)
	})

	t.Run("optional fields default", func(t *testing.T) {
		mockExec := &MockExecutor{Return: &model.ExecutionOutcome{OK: true, Output: "1"}}
		h := handler.NewRunHandler(mockExec, allowAll(), nil, testLogger())

		rr := postRun(t, h, `{"code":"print(1)"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, model.ExecutionRequest{Code: "print(1)"}, mockExec.CapturedReq)
	})
}

func TestRunHandler_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "empty body", body: "", wantErr: locale.EmptyRequest},
		{name: "invalid json", body: `{"code":`, wantErr: locale.MalformedJSON},
		{name: "not an object", body: `["print(1)"]`, wantErr: locale.InvalidRequest},
		{name: "code not a string", body: `{"code": 5}`, wantErr: locale.CodeNotString},
		{name: "code null", body: `{"code": null}`, wantErr: locale.CodeNotString},
		{name: "stdin not a string", body: `{"code": "print(1)", "stdin": ["1"]}`, wantErr: locale.StdinNotString},
		{name: "flag not a bool", body: `{"code": "print(1)", "strip_input_prompts": "yes"}`, wantErr: locale.StripFlagNotBool},
		{name: "missing code", body: `{}`, wantErr: locale.EmptyCode},
		{name: "blank code", body: `{"code": "  \n\t "}`, wantErr: locale.EmptyCode},
		{
			name:    "body beyond the read limit",
			body:    `{"code": "` + strings.Repeat("x", handler.MaxBodyBytes) + `"}`,
			wantErr: locale.MalformedJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockExec := &MockExecutor{}
			h := handler.NewRunHandler(mockExec, allowAll(), nil, testLogger())

			rr := postRun(t, h, tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, model.ExecutionOutcome{Error: tt.wantErr}, decodeOutcome(t, rr))
			assert.Zero(t, mockExec.Calls)
		})
	}
}

func TestRunHandler_RateLimited(t *testing.T) {
	mockExec := &MockExecutor{}
	admitter := &MockAdmitter{Decision: ratelimit.Decision{Allowed: false, RetryAfter: 37}}
	denied := 0
	h := handler.NewRunHandler(mockExec, admitter, func() { denied++ }, testLogger())

	// Admission happens before the body is looked at.
	rr := postRun(t, h, `not json at all`)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "37", rr.Header().Get("Retry-After"))
	assert.Equal(t, model.ExecutionOutcome{Error: locale.RateLimited(37)}, decodeOutcome(t, rr))
	assert.Zero(t, mockExec.Calls)
	assert.Equal(t, 1, denied)
}

func TestRunHandler_Identity(t *testing.T) {
	t.Run("from context", func(t *testing.T) {
		admitter := allowAll()
		h := handler.NewRunHandler(&MockExecutor{Return: &model.ExecutionOutcome{OK: true}}, admitter, nil, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(`{"code":"pass"}`))
		req = req.WithContext(identity.WithClient(req.Context(), "203.0.113.50"))
		h.HandleRun(httptest.NewRecorder(), req)

		assert.Equal(t, []string{"203.0.113.50"}, admitter.Seen)
	})

	t.Run("resolved from the request", func(t *testing.T) {
		admitter := allowAll()
		h := handler.NewRunHandler(&MockExecutor{Return: &model.ExecutionOutcome{OK: true}}, admitter, nil, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(`{"code":"pass"}`))
		req.Header.Set("X-Forwarded-For", " 198.51.100.7 , 10.0.0.2")
		h.HandleRun(httptest.NewRecorder(), req)

		assert.Equal(t, []string{"198.51.100.7"}, admitter.Seen)
	})
}

func TestRunHandler_WithRealLimiter(t *testing.T) {
	limiter := ratelimit.New(ratelimit.Config{MaxRequests: 2, Window: ratelimit.DefaultWindow}, testLogger())
	mockExec := &MockExecutor{Return: &model.ExecutionOutcome{OK: true, Output: "ok"}}
	h := handler.NewRunHandler(mockExec, limiter, nil, testLogger())

	assert.Equal(t, http.StatusOK, postRun(t, h, `{"code":"pass"}`).Code)
	assert.Equal(t, http.StatusOK, postRun(t, h, `{"code":"pass"}`).Code)

	rr := postRun(t, h, `{"code":"pass"}`)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Equal(t, 2, mockExec.Calls)
}
