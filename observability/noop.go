package observability

import "context"

// NoOpObserver discards every observation.
type NoOpObserver struct{}

// ObserveRequest does nothing.
func (NoOpObserver) ObserveRequest(context.Context, RequestObservation) {}

// NewNoOpObserver returns an Observer that discards everything.
func NewNoOpObserver() Observer {
	return NoOpObserver{}
}
