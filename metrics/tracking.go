package metrics

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"
)

// requestState is the per-request tracking state. It is created by
// BeforeRequest and travels by pointer in the request context, so a flag set
// deep inside the handler chain is visible to the hooks that run afterwards.
type requestState struct {
	start    time.Time
	excluded atomic.Bool
}

type requestStateKey struct{}

func withRequestState(ctx context.Context, state *requestState) context.Context {
	return context.WithValue(ctx, requestStateKey{}, state)
}

func requestStateFrom(ctx context.Context) (*requestState, bool) {
	state, ok := ctx.Value(requestStateKey{}).(*requestState)
	return state, ok && state != nil
}

// ExcludeFromTracking marks every request served by next as untracked: the
// default duration, request and exception instruments are not updated for it
// and no observation is emitted. The flag stays set for the rest of the
// request, including the post-response and on-exception hooks.
//
// It only writes the flag, so it composes with other wrappers in any order.
// Put it outermost when combining it with a custom metric:
//
//	router.Handle("/gauge", metrics.ExcludeFromTracking(m.Gauge("task_queue", "Tasks in queue")(h)))
//
// Outside Metrics.Middleware there is no tracking state and the wrapper is a
// plain pass-through.
func ExcludeFromTracking(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if state, ok := requestStateFrom(r.Context()); ok {
			state.excluded.Store(true)
		}
		next.ServeHTTP(w, r)
	})
}

// IsExcluded reports whether the request behind ctx has been excluded from
// default tracking.
func IsExcluded(ctx context.Context) bool {
	state, ok := requestStateFrom(ctx)
	return ok && state.excluded.Load()
}
