// Package metrics provides observability hooks for docsite generation runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	builder := head.NewBuilder(cfg).WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// PrometheusRecorder registers its collectors on the supplied registry. The CLI
// either serves that registry over HTTP (watch mode) or writes a textfile
// snapshot at the end of a one-shot run.
package metrics
