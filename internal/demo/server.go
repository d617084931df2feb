package demo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"

	"github.com/aalemi-dev/httpmetrics/logger"
	"github.com/aalemi-dev/httpmetrics/metrics"
	"github.com/aalemi-dev/httpmetrics/observability"
	"github.com/aalemi-dev/httpmetrics/tracer"
)

// Module wires the demo application on top of logger.FXModule,
// tracer.FXModule and metrics.FXModule. It expects the config sections to be
// supplied, see Supply.
var Module = fx.Module("demo",
	fx.Provide(
		NewObserver,
		NewHandler,
		NewServer,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// Supply puts every section of cfg into the container.
func Supply(cfg Config) fx.Option {
	return fx.Supply(cfg.Server, cfg.Logger, cfg.Metrics, cfg.Tracer)
}

// NewObserver logs every tracked request.
func NewObserver(log *logger.LoggerClient) observability.Observer {
	return observability.NewLoggingObserver(log.Named("requests"))
}

// NewHandler assembles the middleware chain, outermost first: tracing,
// panic recovery, request metrics, routes. Recovery sits outside metrics so
// failed requests are counted before they are turned into 500 responses.
func NewHandler(m *metrics.Metrics, t *tracer.TracerClient, log *logger.LoggerClient) http.Handler {
	router := NewRouter(m, t, log)
	return t.Middleware(Recoverer(log)(m.Instrument(router)))
}

// Recoverer turns handler panics into 500 responses. http.ErrAbortHandler is
// re-raised so the server aborts the connection as usual.
func Recoverer(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if err, ok := p.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(p)
				}

				err, ok := p.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", p)
				}
				log.ErrorWithContext(r.Context(), "recovered from handler panic", err, map[string]interface{}{
					"method": r.Method,
					"url":    r.URL.Path,
				})
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NewServer builds the application server.
func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// RegisterServerLifecycle binds the listener on start, so address errors fail
// startup, and drains connections on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, srv *http.Server, cfg ServerConfig, log *logger.LoggerClient) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", srv.Addr, err)
			}
			log.Info("starting demo server", nil, map[string]interface{}{"address": ln.Addr().String()})

			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("demo server stopped unexpectedly", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()

			log.Info("shutting down demo server", nil)
			return srv.Shutdown(ctx)
		},
	})
}
