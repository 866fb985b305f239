package metrics

import "time"

// Outcome labels a finished transformation.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Recorder defines observability hooks for transformation runs.
type Recorder interface {
	ObserveRunDuration(d time.Duration, outcome Outcome)
	IncSuppressedBlocks(reason string)
	IncInjectedBlocks(n int)
	ObserveExpansion(tag string, matches int)
	IncRewrittenAttributes(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration, Outcome) {}
func (NoopRecorder) IncSuppressedBlocks(string)                {}
func (NoopRecorder) IncInjectedBlocks(int)                     {}
func (NoopRecorder) ObserveExpansion(string, int)              {}
func (NoopRecorder) IncRewrittenAttributes(int)                {}
