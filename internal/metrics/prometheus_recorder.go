package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "htmlprep"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	runDuration      *prom.HistogramVec
	runOutcome       *prom.CounterVec
	suppressedBlocks *prom.CounterVec
	injectedBlocks   prom.Counter
	expansionMatches *prom.HistogramVec
	rewrittenAttrs   prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of document transformations",
			Buckets:   prom.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"outcome"})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Transformations by outcome",
		}, []string{"outcome"})
		pr.suppressedBlocks = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "suppressed_blocks_total",
			Help:      "Subtrees removed by build or strip directives",
		}, []string{"reason"})
		pr.injectedBlocks = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "injected_blocks_total",
			Help:      "Inject blocks written into output",
		})
		pr.expansionMatches = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "expansion_matches",
			Help:      "Files matched per glob expansion",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}, []string{"tag"})
		pr.rewrittenAttrs = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rewritten_attributes_total",
			Help:      "Attribute values changed by the rewrite pipeline",
		})
		reg.MustRegister(pr.runDuration, pr.runOutcome, pr.suppressedBlocks, pr.injectedBlocks, pr.expansionMatches, pr.rewrittenAttrs)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration, outcome Outcome) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncSuppressedBlocks(reason string) {
	if p == nil || p.suppressedBlocks == nil {
		return
	}
	p.suppressedBlocks.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) IncInjectedBlocks(n int) {
	if p == nil || p.injectedBlocks == nil || n <= 0 {
		return
	}
	p.injectedBlocks.Add(float64(n))
}

func (p *PrometheusRecorder) ObserveExpansion(tag string, matches int) {
	if p == nil || p.expansionMatches == nil {
		return
	}
	p.expansionMatches.WithLabelValues(tag).Observe(float64(matches))
}

func (p *PrometheusRecorder) IncRewrittenAttributes(n int) {
	if p == nil || p.rewrittenAttrs == nil || n <= 0 {
		return
	}
	p.rewrittenAttrs.Add(float64(n))
}
