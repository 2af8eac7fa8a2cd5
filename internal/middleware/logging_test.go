package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/sakif/python-playground/internal/identity"
)

func TestIdentify(t *testing.T) {
	var got string
	h := Identify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = identity.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "198.51.100.4", got)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := chimiddleware.RequestID(Identify(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "192.0.2.9:5555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	line := buf.String()
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Contains(t, line, "path=/healthz")
	assert.Contains(t, line, "status=418")
	assert.Contains(t, line, "bytes=15")
	assert.Contains(t, line, "client=192.0.2.9")
	assert.Contains(t, line, "requestID=")
}
