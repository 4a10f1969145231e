package router

import (
	"net/http"

	"github.com/shandysiswandi/safemeet/internal/pkg/config"
)

// middlewareMaintenance answers 503 for the routes listed under
// app.maintenance.endpoints, e.g. "POST /api/send-otp".
func middlewareMaintenance(cfg config.Config) Middleware {
	blocked := routeSetFromConfig(cfg, "app.maintenance.endpoints")

	return func(next http.Handler) http.Handler {
		if len(blocked) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if blocked.has(r) {
				w.Header().Set("Retry-After", "120")
				writeJSON(w, errorResponse{Message: "Service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
