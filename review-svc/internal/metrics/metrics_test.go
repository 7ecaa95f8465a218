package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.Submission("ok")
	m.Submission("ok")
	m.Submission("validation")
	m.StoreError("get_game_reviews")
	m.BreakerState("content-store", 2)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.submissions.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.submissions.WithLabelValues("validation")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.storeErrors.WithLabelValues("get_game_reviews")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.breakerState.WithLabelValues("content-store")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.Submission("ok")
		m.StoreError("x")
		m.BreakerState("x", 1)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Submission("ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `review_submissions_total{outcome="ok"} 1`)
}
