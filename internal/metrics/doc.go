// Package metrics provides build observability hooks.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so callers never nil-check:
//
//	builder := build.New(cfg, registry, build.Options{})            // no metrics
//	builder := build.New(cfg, registry, build.Options{Recorder: r}) // Prometheus
//
// PrometheusRecorder registers its collectors on a caller-supplied registry,
// which HTTPHandler exposes for scraping (the serve command mounts it at
// /metrics).
package metrics
