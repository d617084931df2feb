package tracer

// Config defines how spans are sampled and exported.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name" envconfig:"TRACER_SERVICE_NAME"`

	// AppEnv is recorded as deployment.environment and "environment".
	// Common values: "development", "staging", "production".
	AppEnv string `yaml:"app_env" envconfig:"TRACER_APP_ENV"`

	// EnableExport sends spans to an OTLP/HTTP collector. The collector
	// address comes from Endpoint or, when that is empty, from the standard
	// OTEL_EXPORTER_OTLP_* environment variables.
	//
	// With export disabled, spans are still created and propagated, so trace
	// ids keep flowing into logs and metric exemplars.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACER_ENABLE_EXPORT"`

	// Endpoint is the collector host:port, e.g. "otel-collector:4318".
	Endpoint string `yaml:"endpoint" envconfig:"TRACER_ENDPOINT"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" envconfig:"TRACER_INSECURE"`

	// SampleRatio is the fraction of new traces that are sampled. Requests
	// that arrive with a sampled parent are always sampled.
	//
	// Default: 1 (sample everything)
	SampleRatio *float64 `yaml:"sample_ratio" envconfig:"TRACER_SAMPLE_RATIO"`
}

func (c Config) sampleRatio() float64 {
	if c.SampleRatio == nil {
		return 1
	}
	return *c.SampleRatio
}
