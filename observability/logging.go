package observability

import (
	"context"

	"github.com/aalemi-dev/httpmetrics/logger"
)

// LoggingObserver writes one structured entry per tracked request: debug level
// for completed requests, error level for failed ones.
type LoggingObserver struct {
	log logger.Logger
}

// NewLoggingObserver returns an observer that writes request entries to log.
func NewLoggingObserver(log logger.Logger) *LoggingObserver {
	return &LoggingObserver{log: log}
}

// ObserveRequest implements Observer.
func (o *LoggingObserver) ObserveRequest(ctx context.Context, obs RequestObservation) {
	fields := map[string]interface{}{
		"method":      obs.Method,
		"route":       obs.Route,
		"outcome":     string(obs.Outcome),
		"duration_ms": float64(obs.Duration.Microseconds()) / 1000,
	}

	if obs.Outcome == OutcomeFailed {
		o.log.ErrorWithContext(ctx, "request failed", obs.Err, fields)
		return
	}

	fields["status"] = obs.Status
	o.log.DebugWithContext(ctx, "request completed", nil, fields)
}
