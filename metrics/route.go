package metrics

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// RouteResolver finds the route template that matched a request.
type RouteResolver interface {
	ResolveRoute(r *http.Request) (template string, ok bool)
}

// RouteResolverFunc adapts a function to RouteResolver.
type RouteResolverFunc func(r *http.Request) (string, bool)

// ResolveRoute calls f(r).
func (f RouteResolverFunc) ResolveRoute(r *http.Request) (string, bool) {
	return f(r)
}

// MuxRoutes resolves templates by re-matching the request against router.
// Use it when the middleware wraps the router from the outside, where
// mux.CurrentRoute is not available yet. Instrument installs it automatically.
func MuxRoutes(router *mux.Router) RouteResolver {
	return RouteResolverFunc(func(r *http.Request) (string, bool) {
		var match mux.RouteMatch
		if !router.Match(r, &match) || match.Route == nil {
			return "", false
		}
		return routeTemplate(match.Route)
	})
}

type noRoutes struct{}

func (noRoutes) ResolveRoute(*http.Request) (string, bool) { return "", false }

// pathLabel returns the bounded "path" label for r. Raw URLs are never used.
func (m *Metrics) pathLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, ok := routeTemplate(route); ok {
			return tpl
		}
	}
	if r.Pattern != "" {
		return stripMethod(r.Pattern)
	}
	if tpl, ok := m.routes.ResolveRoute(r); ok && tpl != "" {
		return tpl
	}
	m.log.DebugWithContext(r.Context(), "no route matched request", nil, map[string]interface{}{
		"method":     r.Method,
		"url":        r.URL.Path,
		"path_label": m.cfg.UnmatchedPath,
	})
	return m.cfg.UnmatchedPath
}

func routeTemplate(route *mux.Route) (string, bool) {
	tpl, err := route.GetPathTemplate()
	if err != nil {
		// Routes matched on host or prefix only.
		if tpl, err = route.GetPathRegexp(); err != nil {
			return "", false
		}
	}
	return tpl, tpl != ""
}

// stripMethod turns a ServeMux pattern such as "GET /users/{id}" into "/users/{id}".
func stripMethod(pattern string) string {
	if i := strings.IndexByte(pattern, ' '); i >= 0 {
		return strings.TrimLeft(pattern[i+1:], " \t")
	}
	return pattern
}
