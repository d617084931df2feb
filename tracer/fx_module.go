package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/httpmetrics/logger"
)

// FXModule provides *TracerClient and the Tracer interface, and flushes
// pending spans when the application stops. A tracer.Config must be
// provided; a *logger.LoggerClient is used when present.
//
//	app := fx.New(
//	    tracer.FXModule,
//	    fx.Provide(func() tracer.Config { return tracer.Config{ServiceName: "orders"} }),
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
		fx.Annotate(
			func(t *TracerClient) Tracer { return t },
			fx.As(new(Tracer)),
		),
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// LifecycleParams are the dependencies of RegisterTracerLifecycle.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Tracer    *TracerClient
	Logger    *logger.LoggerClient `optional:"true"`
}

// RegisterTracerLifecycle shuts the tracer provider down on stop so batched
// spans reach the exporter.
func RegisterTracerLifecycle(p LifecycleParams) {
	log := p.Logger
	if log == nil {
		log = logger.NewNopLoggerClient()
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down tracer", nil)
			if err := p.Tracer.Shutdown(ctx); err != nil {
				log.Error("error shutting down tracer", err)
				return err
			}
			return nil
		},
	})
}
