package logger

// Log levels accepted by Config.Level.
const (
	// Debug enables per-request instrumentation traces such as skipped
	// (excluded) requests and requests that matched no route.
	Debug = "debug"

	// Info is the default level: startup, registration and shutdown events.
	Info = "info"

	// Warning reports instrumentation problems that did not affect a response.
	Warning = "warning"

	// Error only reports failures.
	Error = "error"
)

// Config defines the configuration structure for the logger.
type Config struct {
	// Level is one of Debug, Info, Warning or Error. Unknown values fall back to Info.
	Level string `yaml:"level" envconfig:"LOGGER_LEVEL"`

	// EnableTracing adds "trace_id" and "span_id" fields to entries written through the
	// *WithContext methods when the context carries a recording OpenTelemetry span.
	EnableTracing bool `yaml:"enable_tracing" envconfig:"LOGGER_ENABLE_TRACING"`

	// ServiceName populates the "service" field of every entry.
	ServiceName string `yaml:"service_name" envconfig:"LOGGER_SERVICE_NAME"`

	// CallerSkip is the number of stack frames skipped when reporting the caller.
	// Values <= 0 mean 1, which is right for direct calls on *LoggerClient.
	CallerSkip int `yaml:"caller_skip" envconfig:"LOGGER_CALLER_SKIP"`
}
