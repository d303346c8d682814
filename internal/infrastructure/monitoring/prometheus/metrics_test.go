package prometheus

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBatchCounters(t *testing.T) {
	m := NewMetrics()

	m.ObserveBatch(250, 120*time.Millisecond)
	m.ObserveBatch(50, 10*time.Millisecond)
	m.AddInvalid(3)
	m.AddViolations(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.batchesTotal))
	assert.Equal(t, 300.0, testutil.ToFloat64(m.compoundsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.invalidTotal))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.violationsTotal))
}

func TestCacheCounters(t *testing.T) {
	m := NewMetrics()
	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheHitsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMissesTotal))
}

func TestObserveHTTPRequest(t *testing.T) {
	m := NewMetrics()
	m.ObserveHTTPRequest("POST", "/api/v1/compounds/analyze", "200", 30*time.Millisecond)
	m.ObserveHTTPRequest("POST", "/api/v1/compounds/analyze", "400", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.httpRequestsTotal.WithLabelValues("POST", "/api/v1/compounds/analyze", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.httpRequestsTotal.WithLabelValues("POST", "/api/v1/compounds/analyze", "400")))
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	m := NewMetrics()
	m.ObserveBatch(10, time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "compound_analyzer_batches_total"))
	assert.True(t, strings.Contains(body, "compound_analyzer_compounds_total"))
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	// Two instances must be constructible in one process, e.g. in tests.
	m1 := NewMetrics()
	m2 := NewMetrics()
	m1.CacheHit()
	assert.Equal(t, 0.0, testutil.ToFloat64(m2.cacheHitsTotal))
}
