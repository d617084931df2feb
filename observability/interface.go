package observability

import (
	"context"
	"time"
)

// Outcome is the terminal state of an observed request.
type Outcome string

const (
	// OutcomeCompleted means the handler returned and a response status is known.
	OutcomeCompleted Outcome = "completed"

	// OutcomeFailed means the handler panicked. Status is 0 in that case.
	OutcomeFailed Outcome = "failed"
)

// Observer receives one RequestObservation per tracked request.
type Observer interface {
	ObserveRequest(ctx context.Context, obs RequestObservation)
}

// RequestObservation carries the same values used to label and update the
// default request instruments.
type RequestObservation struct {
	// Method is the HTTP method, e.g. "GET".
	Method string

	// Route is the matched route template ("/users/{id}") or the configured
	// placeholder when no route matched.
	Route string

	// Status is the response status code for completed requests.
	Status int

	Outcome Outcome

	// Duration is measured from the pre-request hook with the monotonic clock.
	Duration time.Duration

	// Err describes the panic value for failed requests.
	Err error
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx context.Context, obs RequestObservation)

// ObserveRequest calls f(ctx, obs).
func (f ObserverFunc) ObserveRequest(ctx context.Context, obs RequestObservation) {
	f(ctx, obs)
}

// Multi fans an observation out to every non-nil observer in order.
func Multi(observers ...Observer) Observer {
	filtered := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	return multiObserver(filtered)
}

type multiObserver []Observer

func (m multiObserver) ObserveRequest(ctx context.Context, obs RequestObservation) {
	for _, o := range m {
		o.ObserveRequest(ctx, obs)
	}
}
