package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.CheckIns.WithLabelValues("late").Inc()
	m.CheckIns.WithLabelValues("late").Inc()
	m.CheckOuts.WithLabelValues("half-day").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CheckIns.WithLabelValues("late")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckOuts.WithLabelValues("half-day")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest(http.MethodPost, "/api/attendance/checkin", 201, 15*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", 404, time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "attendance_http_request_duration_seconds")
	assert.Contains(t, body, `route="unmatched"`)
}

func TestNewMetrics_Independent(t *testing.T) {
	// Separate registries must not collide on registration.
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}
