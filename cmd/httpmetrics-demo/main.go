// Command httpmetrics-demo serves a small instrumented application and its
// metrics endpoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/aalemi-dev/httpmetrics/internal/demo"
	"github.com/aalemi-dev/httpmetrics/logger"
	"github.com/aalemi-dev/httpmetrics/metrics"
	"github.com/aalemi-dev/httpmetrics/tracer"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "httpmetrics-demo",
		Short:         "Demo application for HTTP request metrics",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo server",
		Long: `Run the demo server.

Routes:
  GET /                 plain response, tracked
  GET /error            panics, counted in http_request_exceptions_total
  GET /untracked-error  panics, not tracked
  GET /gauge            increments the task_queue gauge, not tracked
  GET /counter          increments my_counter{labelA="A",labelB="B"}
  GET /hist             observes my_hist
  GET /users/{id}       increments user_lookups_total{tier=...}
  GET /metrics          Prometheus exposition

Example:
  httpmetrics-demo serve --config config.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := demo.LoadConfig(configPath)
			if err != nil {
				return err
			}
			app := newApp(cfg)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	return cmd
}

func newApp(cfg demo.Config) *fx.App {
	return fx.New(
		demo.Supply(cfg),
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		demo.Module,
		fx.WithLogger(func(log *logger.LoggerClient) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Zap.Named("fx")}
		}),
	)
}
