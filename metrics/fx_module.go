package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/aalemi-dev/httpmetrics/logger"
	"github.com/aalemi-dev/httpmetrics/observability"
)

// FXModule provides *Metrics and the MetricsCollector interface, and runs the
// dedicated exposition server when Config.ListenAddress is set.
//
// A metrics.Config must be provided. A *logger.LoggerClient and an
// observability.Observer are picked up when present.
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    fx.Provide(func() metrics.Config {
//	        return metrics.Config{ServiceName: "orders"}
//	    }),
//	    fx.Invoke(func(m *metrics.Metrics, router *mux.Router) {
//	        router.Handle("/orders", m.Counter("orders_total", "Orders placed")(ordersHandler))
//	    }),
//	)
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetricsFromParams,
		fx.Annotate(
			func(m *Metrics) MetricsCollector { return m },
			fx.As(new(MetricsCollector)),
		),
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// Params are the dependencies FXModule resolves for NewMetrics.
type Params struct {
	fx.In

	Config   Config
	Logger   *logger.LoggerClient   `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewMetricsFromParams adapts NewMetrics to fx.
func NewMetricsFromParams(p Params) (*Metrics, error) {
	var opts []Option
	if p.Observer != nil {
		opts = append(opts, WithObserver(p.Observer))
	}
	return NewMetrics(p.Config, p.Logger, opts...)
}

// RegisterMetricsLifecycle starts the exposition server on application start
// and shuts it down gracefully on stop. It does nothing when m.Server is nil.
func RegisterMetricsLifecycle(lc fx.Lifecycle, m *Metrics) {
	if m.Server == nil {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				m.log.Info("starting metrics server", nil, map[string]interface{}{
					"address":  m.Server.Addr,
					"endpoint": m.cfg.Endpoint,
				})

				if err := m.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					m.log.Error("metrics server stopped unexpectedly", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			m.log.Info("shutting down metrics server", nil, nil)
			if err := m.Server.Shutdown(ctx); err != nil {
				m.log.Error("error shutting down metrics server", err, nil)
				return err
			}
			return nil
		},
	})
}
