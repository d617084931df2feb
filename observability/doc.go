// Package observability defines the hook through which httpmetrics reports
// finished requests to code outside the metrics registry.
//
// The request middleware in package metrics updates its Prometheus
// instruments itself. An Observer is for everything else that wants the same
// per-request facts without re-deriving them: access logs, audit trails,
// sampling decisions, test probes.
//
//	m, err := metrics.NewMetrics(cfg, log, metrics.WithObserver(
//	    observability.NewLoggingObserver(log),
//	))
//
// Observers are only invoked for tracked requests. A request excluded with
// metrics.ExcludeFromTracking produces no observation, exactly like it
// produces no default metric samples.
//
// Observers run synchronously on the request goroutine after the handler has
// finished, so they must be cheap and must not block.
package observability
