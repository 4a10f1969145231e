package router

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/safemeet/internal/pkg/config"
)

// Middleware wraps an http.Handler with cross-cutting behavior.
type Middleware func(next http.Handler) http.Handler

// Chain applies mws around h so that mws[0] is the outermost handler.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		h = mws[i](h)
	}
	return h
}

// routeSet holds "METHOD /path" keys, the format used for public and
// maintenance route lists.
type routeSet map[string]struct{}

func newRouteSet(routes ...string) routeSet {
	set := make(routeSet, len(routes))
	for _, route := range routes {
		if key, ok := normalizeRoute(route); ok {
			set[key] = struct{}{}
		}
	}
	return set
}

func routeSetFromConfig(cfg config.Config, key string) routeSet {
	if cfg == nil {
		return routeSet{}
	}
	return newRouteSet(cfg.GetArray(key)...)
}

func (s routeSet) has(r *http.Request) bool {
	_, ok := s[routeKey(r)]
	return ok
}

func normalizeRoute(route string) (string, bool) {
	method, path, ok := strings.Cut(strings.TrimSpace(route), " ")
	path = strings.TrimSpace(path)
	if !ok || path == "" {
		return "", false
	}
	return strings.ToUpper(method) + " " + path, true
}

// matchedRoutePath prefers the registered pattern so that metrics and route
// lists never see raw path parameters.
func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

func routeKey(r *http.Request) string {
	return r.Method + " " + matchedRoutePath(r)
}
