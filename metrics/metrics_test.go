package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.BundleBuilt("line", "ready", 5*time.Millisecond)
	m.CollectorFetch("south", "ok")
	m.SetOccupancy("south", 42.5)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bundleBuilds.WithLabelValues("line", "ready")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.collectorFetches.WithLabelValues("south", "ok")))
	assert.Equal(t, 42.5, testutil.ToFloat64(m.lastOccupancy.WithLabelValues("south")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.CacheHit()
		m.CacheMiss()
		m.BundleBuilt("line", "ready", time.Millisecond)
		m.CollectorFetch("south", "error")
		m.SetOccupancy("south", 1)
	})
	assert.Nil(t, m.Registry())
}

func TestMetrics_WrapHandlerAndExposition(t *testing.T) {
	m := NewMetrics()
	wrapped := m.WrapHandler("ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("ping", "418")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `http_requests_total{route="ping",status="418"} 1`))
}
