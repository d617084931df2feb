// Package logger provides the structured logger used across httpmetrics.
//
// LoggerClient wraps a zap.Logger configured for JSON output on stderr. Every
// method takes a message, an optional error and any number of field maps:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info, ServiceName: "orders"})
//	log.Info("metrics endpoint mounted", nil, map[string]interface{}{"path": "/metrics"})
//
// The *WithContext variants add trace correlation fields when Config.EnableTracing
// is set and the context carries an active OpenTelemetry span, which is how
// per-request instrumentation warnings can be joined with the request's trace.
//
// FXModule provides *LoggerClient and the Logger interface to an fx application
// and flushes buffered entries on shutdown.
package logger
