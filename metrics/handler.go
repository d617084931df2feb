package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the exposition format for every metric in m's registry.
// Requests to it are excluded from default tracking. Collectors that fail are
// logged and skipped; the rest of the scrape is still served.
func (m *Metrics) Handler() http.Handler {
	return ExcludeFromTracking(promhttp.HandlerFor(m.registry.Gatherer(), promhttp.HandlerOpts{
		ErrorHandling:     promhttp.ContinueOnError,
		ErrorLog:          m.log.StdLogger(),
		EnableOpenMetrics: m.cfg.EnableOpenMetrics,
	}))
}

// Snapshot renders the current values of every metric in the text
// exposition format. See Registry.Snapshot.
func (m *Metrics) Snapshot() ([]byte, error) {
	return m.registry.Snapshot()
}
