package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordBid(t *testing.T) {
	m := New()

	m.RecordBid(false)
	m.RecordBid(true)
	m.RecordBid(true)
	m.RecordFailure()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BidsComputed.WithLabelValues(OutcomePriced)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BidsComputed.WithLabelValues(OutcomeFloorHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BidsComputed.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MarginFloorHits))
}

func TestObserveRerankSetsGauge(t *testing.T) {
	m := New()
	m.ObserveRerank(0.02, 7)
	assert.Equal(t, 7.0, testutil.ToFloat64(m.ActiveRFPs))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordBid(true)
		m.RecordFailure()
		m.ObserveMatch(80)
		m.ObserveRerank(1, 1)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveMatch(95)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bidengine_match_score_count 1")
}
