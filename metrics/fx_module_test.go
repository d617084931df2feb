package metrics_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/httpmetrics/logger"
	"github.com/aalemi-dev/httpmetrics/metrics"
	"github.com/aalemi-dev/httpmetrics/observability"
)

func fxTestConfig() metrics.Config {
	return metrics.Config{
		ServiceName:              "fx-test",
		DisableRuntimeCollectors: true,
	}
}

func TestFXModule_ProvidesMetrics(t *testing.T) {
	t.Parallel()
	var m *metrics.Metrics

	app := fxtest.New(t,
		metrics.FXModule,
		fx.Provide(fxTestConfig),
		fx.Provide(func() *logger.LoggerClient {
			return logger.NewLoggerClient(logger.Config{Level: logger.Info})
		}),
		fx.Populate(&m),
	)

	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, m)
	assert.Equal(t, "fx-test", m.Config().ServiceName)
}

func TestFXModule_ProvidesCollectorInterface(t *testing.T) {
	t.Parallel()
	var collector metrics.MetricsCollector

	app := fxtest.New(t,
		metrics.FXModule,
		fx.Provide(fxTestConfig),
		fx.Populate(&collector),
	)

	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, collector)
	c, err := collector.CreateCounter("fx_counter_total", "help", []string{"label"})
	require.NoError(t, err)
	c.WithLabelValues("value").Inc()
}

func TestFXModule_WiresObserver(t *testing.T) {
	t.Parallel()
	var (
		m   *metrics.Metrics
		got []observability.RequestObservation
	)

	app := fxtest.New(t,
		metrics.FXModule,
		fx.Provide(fxTestConfig),
		fx.Provide(func() observability.Observer {
			return observability.ObserverFunc(func(_ context.Context, obs observability.RequestObservation) {
				got = append(got, obs)
			})
		}),
		fx.Populate(&m),
	)

	app.RequireStart()
	defer app.RequireStop()

	router := mux.NewRouter()
	router.HandleFunc("/ping", func(http.ResponseWriter, *http.Request) {})
	serve(m.Instrument(router), http.MethodGet, "/ping")

	require.Len(t, got, 1)
	assert.Equal(t, "/ping", got[0].Route)
}

func TestFXModule_StartsAndStopsDedicatedServer(t *testing.T) {
	t.Parallel()
	var m *metrics.Metrics

	app := fxtest.New(t,
		metrics.FXModule,
		fx.Provide(func() metrics.Config {
			cfg := fxTestConfig()
			cfg.ListenAddress = metrics.Ptr("127.0.0.1:0")
			return cfg
		}),
		fx.Populate(&m),
	)

	app.RequireStart()
	require.NotNil(t, m.Server)
	app.RequireStop()

	assert.ErrorIs(t, m.Server.ListenAndServe(), http.ErrServerClosed)
}
