package metrics

import (
	"errors"
	"fmt"
)

// Configuration errors. They are returned wrapped in a *MetricError, so test
// for them with errors.Is.
var (
	// ErrDuplicateMetric is returned when a metric name is registered twice.
	ErrDuplicateMetric = errors.New("metric already registered")

	// ErrMetricNotFound is returned when looking up a name that was never registered.
	ErrMetricNotFound = errors.New("metric not found")

	// ErrLabelMismatch is returned when a label set does not match the
	// instrument's declared label names.
	ErrLabelMismatch = errors.New("labels do not match metric schema")

	// ErrInvalidMetric is returned when Prometheus rejects a metric definition,
	// for example because of an invalid name or a descriptor clash.
	ErrInvalidMetric = errors.New("invalid metric definition")

	// ErrWrongKind is returned when a typed lookup finds an instrument of
	// another kind.
	ErrWrongKind = errors.New("metric has a different kind")
)

// MetricError ties one of the errors above to the metric it concerns.
type MetricError struct {
	Name string
	Err  error

	// Cause is the underlying library error, if any.
	Cause error
}

func (e *MetricError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("metric %q: %v: %v", e.Name, e.Err, e.Cause)
	}
	return fmt.Sprintf("metric %q: %v", e.Name, e.Err)
}

// Unwrap exposes both the sentinel and the library cause to errors.Is/As.
func (e *MetricError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func newMetricError(name string, sentinel, cause error) *MetricError {
	return &MetricError{Name: name, Err: sentinel, Cause: cause}
}
