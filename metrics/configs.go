package metrics

// Defaults applied by NewMetrics when the corresponding Config field is empty.
const (
	DefaultEndpoint      = "/metrics"
	DefaultUnmatchedPath = "<unmatched>"
)

// Names of the default request instruments.
const (
	RequestDurationName   = "http_request_duration_seconds"
	RequestsTotalName     = "http_requests_total"
	RequestExceptionsName = "http_request_exceptions_total"
)

// Config defines how request instrumentation and the exposition endpoint behave.
type Config struct {
	// Endpoint is the route the exposition handler is mounted on by Instrument.
	// Requests to it are never tracked by the default instruments.
	//
	// Default: "/metrics"
	Endpoint string `yaml:"endpoint" envconfig:"METRICS_ENDPOINT"`

	// ListenAddress, when non-nil and non-empty, makes NewMetrics build a
	// dedicated http.Server that serves only the exposition endpoint. The fx
	// lifecycle starts and stops it. Leave nil to expose metrics on the
	// application's own router only.
	//
	// Example values:
	//   - ":9091"          → all interfaces, port 9091
	//   - "127.0.0.1:9091" → localhost only
	ListenAddress *string `yaml:"listen_address" envconfig:"METRICS_LISTEN_ADDRESS"`

	// ServiceName, when set, is attached as a constant "service" label to
	// every exported series.
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`

	// DurationBuckets are the upper bounds of http_request_duration_seconds.
	// Empty means prometheus.DefBuckets (5ms up to 10s).
	DurationBuckets []float64 `yaml:"duration_buckets" envconfig:"METRICS_DURATION_BUCKETS"`

	// UnmatchedPath is the path label used when no route matched the request,
	// which keeps 404 scans from creating one series per scanned URL.
	//
	// Default: "<unmatched>"
	UnmatchedPath string `yaml:"unmatched_path" envconfig:"METRICS_UNMATCHED_PATH"`

	// DisableRuntimeCollectors skips registering the Go runtime and process
	// collectors.
	DisableRuntimeCollectors bool `yaml:"disable_runtime_collectors" envconfig:"METRICS_DISABLE_RUNTIME_COLLECTORS"`

	// EnableOpenMetrics lets scrapers negotiate the OpenMetrics format, which
	// is required to see trace_id exemplars on the duration histogram.
	EnableOpenMetrics bool `yaml:"enable_open_metrics" envconfig:"METRICS_ENABLE_OPEN_METRICS"`
}

// Ptr returns a pointer to s. Handy for Config.ListenAddress.
func Ptr(s string) *string {
	return &s
}

func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.UnmatchedPath == "" {
		c.UnmatchedPath = DefaultUnmatchedPath
	}
	return c
}
