package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveRunDuration(time.Millisecond, OutcomeSuccess)
	r.IncSuppressedBlocks("build")
	r.IncInjectedBlocks(1)
	r.ObserveExpansion("script", 2)
	r.IncRewrittenAttributes(3)
}

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveRunDuration(5*time.Millisecond, OutcomeSuccess)
	r.ObserveRunDuration(time.Millisecond, OutcomeFailed)
	r.IncSuppressedBlocks("build")
	r.IncSuppressedBlocks("build")
	r.IncSuppressedBlocks("strip")
	r.IncInjectedBlocks(2)
	r.IncInjectedBlocks(0)
	r.IncRewrittenAttributes(4)
	r.ObserveExpansion("link", 3)

	assert.InDelta(t, 1, testutil.ToFloat64(r.runOutcome.WithLabelValues("success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.suppressedBlocks.WithLabelValues("build")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.injectedBlocks), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(r.rewrittenAttrs), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(r.expansionMatches))
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveRunDuration(time.Second, OutcomeCanceled)
	r.IncSuppressedBlocks("strip")
	r.IncInjectedBlocks(1)
	r.ObserveExpansion("script", 1)
	r.IncRewrittenAttributes(1)
}

func TestWriteTextfileAndHandler(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)
	r.IncSuppressedBlocks("build")

	path := filepath.Join(t.TempDir(), "htmlprep.prom")
	require.NoError(t, WriteTextfile(path, reg))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `htmlprep_suppressed_blocks_total{reason="build"} 1`)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "htmlprep_suppressed_blocks_total")
}
