// Package metrics provides transformation metrics behind a Recorder
// interface.
//
// Components default to NoopRecorder. The CLI swaps in a PrometheusRecorder
// when --metrics-file or --metrics-addr is given:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	t := htmlprep.New(opts, htmlprep.WithRecorder(rec))
package metrics
