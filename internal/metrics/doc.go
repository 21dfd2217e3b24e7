// Package metrics records build and stage metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics are
// opt-in and call sites never check for nil:
//
//	asm := corpus.NewAssembler(cfg) // NoopRecorder
//	asm := corpus.NewAssembler(cfg, corpus.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// A build is a single short-lived process, so Prometheus metrics are written
// once to a node_exporter textfile (see WriteTextfile) instead of being served.
package metrics
