package demo

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/aalemi-dev/httpmetrics/logger"
	"github.com/aalemi-dev/httpmetrics/metrics"
	"github.com/aalemi-dev/httpmetrics/tracer"
)

// Defaults for ServerConfig.
const (
	DefaultAddress         = ":5000"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config is the demo application's configuration file.
//
//	server:
//	  address: ":5000"
//	logger:
//	  level: debug
//	metrics:
//	  service_name: demo
//	  enable_open_metrics: true
//	tracer:
//	  service_name: demo
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Logger  logger.Config  `yaml:"logger"`
	Metrics metrics.Config `yaml:"metrics"`
	Tracer  tracer.Config  `yaml:"tracer"`
}

// ServerConfig configures the application HTTP server.
type ServerConfig struct {
	Address         string        `yaml:"address" envconfig:"SERVER_ADDRESS"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SERVER_SHUTDOWN_TIMEOUT"`
}

// LoadConfig reads the YAML file at path, if any, and then applies
// environment overrides such as SERVER_ADDRESS, LOGGER_LEVEL or
// METRICS_ENDPOINT. An empty path means environment and defaults only.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Sections are processed one by one so that keys are the bare tag names
	// and not prefixed with the section name.
	for _, section := range []interface{}{&cfg.Server, &cfg.Logger, &cfg.Metrics, &cfg.Tracer} {
		if err := envconfig.Process("", section); err != nil {
			return Config{}, fmt.Errorf("apply environment: %w", err)
		}
	}

	cfg.applyDefaults()
	return cfg, cfg.validate()
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Logger.ServiceName == "" {
		c.Logger.ServiceName = c.Metrics.ServiceName
	}
	if c.Tracer.ServiceName == "" {
		c.Tracer.ServiceName = c.Metrics.ServiceName
	}
}

var errInvalidConfig = errors.New("invalid config")

func (c Config) validate() error {
	if ratio := c.Tracer.SampleRatio; ratio != nil && (*ratio < 0 || *ratio > 1) {
		return fmt.Errorf("%w: tracer.sample_ratio must be within [0, 1], got %v", errInvalidConfig, *ratio)
	}
	if c.Metrics.Endpoint != "" && c.Metrics.Endpoint[0] != '/' {
		return fmt.Errorf("%w: metrics.endpoint must start with '/', got %q", errInvalidConfig, c.Metrics.Endpoint)
	}
	return nil
}
