package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRun(t *testing.T) {
	m := New(nil, nil)

	m.RecordRun("ok", 0.2, 30)
	m.RecordRun("ok", 0.1, 30)
	m.RecordRun("timeout", 3, 10)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("timeout")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRun("ok", 1, 1)
		m.RecordRateLimited()
	})
}

func TestHandler_ExposesGauges(t *testing.T) {
	m := New(func() int { return 7 }, nil)
	m.RecordRateLimited()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "playground_rate_limiter_clients 7")
	assert.Contains(t, string(body), "playground_rate_limited_total 1")
	assert.Contains(t, string(body), "playground_warm_containers 0")
}
