package demo

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aalemi-dev/httpmetrics/logger"
	"github.com/aalemi-dev/httpmetrics/metrics"
	"github.com/aalemi-dev/httpmetrics/tracer"
)

// Names of the custom instruments created by the demo routes.
const (
	TaskQueueGauge   = "task_queue"
	MyCounter        = "my_counter"
	MyHistogram      = "my_hist"
	UserLookupsTotal = "user_lookups_total"
)

var (
	errTracked   = errors.New("this is an error")
	errUntracked = errors.New("this is an error that isn't tracked")
)

// knownTiers bounds the values of the "tier" label.
var knownTiers = map[string]bool{"free": true, "pro": true, "enterprise": true}

// NewRouter registers the demo routes on a fresh router. Custom instruments
// are created here, so calling it twice with the same Metrics panics with
// metrics.ErrDuplicateMetric.
func NewRouter(m *metrics.Metrics, t tracer.Tracer, log logger.Logger) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, "Hello!")
	}).Methods(http.MethodGet)

	router.HandleFunc("/error", func(http.ResponseWriter, *http.Request) {
		panic(errTracked)
	}).Methods(http.MethodGet)

	router.Handle("/untracked-error", metrics.ExcludeFromTracking(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(errUntracked)
		}),
	)).Methods(http.MethodGet)

	router.Handle("/gauge", metrics.ExcludeFromTracking(
		m.Gauge(TaskQueueGauge, "Number of tasks in queue", metrics.WithoutUpdate())(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				g, err := m.GetGauge(TaskQueueGauge)
				if err != nil {
					log.ErrorWithContext(r.Context(), "task queue gauge missing", err)
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				g.Inc()
				writeText(w, "task added to queue")
			}),
		),
	)).Methods(http.MethodGet)

	router.Handle("/counter", m.Counter(MyCounter, "Custom counter",
		metrics.WithLabels(metrics.Labels{"labelA": "A", "labelB": "B"}),
	)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, "counter increased by +1")
	}))).Methods(http.MethodGet)

	router.Handle("/hist", m.Histogram(MyHistogram, "Custom histogram")(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeText(w, "histogram updated")
		}),
	)).Methods(http.MethodGet)

	router.Handle("/users/{id}", m.Counter(UserLookupsTotal, "User lookups by client tier",
		metrics.WithRequestLabels([]string{"tier"}, clientTier),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := t.StartSpan(r.Context(), "load-user")
		defer span.End()

		id := mux.Vars(r)["id"]
		span.SetAttributes(map[string]interface{}{"user.id": id})
		log.DebugWithContext(ctx, "user looked up", nil, map[string]interface{}{"user_id": id})

		writeText(w, fmt.Sprintf("user %s", id))
	}))).Methods(http.MethodGet)

	return router
}

// clientTier reads X-Client-Tier. Unknown values collapse to "other".
func clientTier(r *http.Request) metrics.Labels {
	tier := r.Header.Get("X-Client-Tier")
	if !knownTiers[tier] {
		tier = "other"
	}
	return metrics.Labels{"tier": tier}
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}
