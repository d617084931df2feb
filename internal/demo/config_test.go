package demo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAddress, cfg.Server.Address)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Nil(t, cfg.Metrics.ListenAddress)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9000"
  shutdown_timeout: 3s
logger:
  level: debug
metrics:
  endpoint: /internal/metrics
  listen_address: ":9091"
  service_name: demo
  duration_buckets: [0.1, 0.5, 1]
  enable_open_metrics: true
tracer:
  app_env: test
  sample_ratio: 0.25
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "/internal/metrics", cfg.Metrics.Endpoint)
	require.NotNil(t, cfg.Metrics.ListenAddress)
	assert.Equal(t, ":9091", *cfg.Metrics.ListenAddress)
	assert.Equal(t, []float64{0.1, 0.5, 1}, cfg.Metrics.DurationBuckets)
	assert.True(t, cfg.Metrics.EnableOpenMetrics)
	require.NotNil(t, cfg.Tracer.SampleRatio)
	assert.Equal(t, 0.25, *cfg.Tracer.SampleRatio)

	// Service names fall back to the metrics one.
	assert.Equal(t, "demo", cfg.Logger.ServiceName)
	assert.Equal(t, "demo", cfg.Tracer.ServiceName)
}

func TestLoadConfig_EnvironmentOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9000"
logger:
  level: info
`)
	t.Setenv("SERVER_ADDRESS", ":7000")
	t.Setenv("LOGGER_LEVEL", "warning")
	t.Setenv("METRICS_DURATION_BUCKETS", "0.05,0.5")
	t.Setenv("METRICS_DISABLE_RUNTIME_COLLECTORS", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.Equal(t, "warning", cfg.Logger.Level)
	assert.Equal(t, []float64{0.05, 0.5}, cfg.Metrics.DurationBuckets)
	assert.True(t, cfg.Metrics.DisableRuntimeCollectors)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "server: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	_, err = LoadConfig(writeConfig(t, "tracer:\n  sample_ratio: 2\n"))
	require.ErrorIs(t, err, errInvalidConfig)

	_, err = LoadConfig(writeConfig(t, "metrics:\n  endpoint: metrics\n"))
	require.ErrorIs(t, err, errInvalidConfig)

	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "soon")
	_, err = LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply environment")
}
