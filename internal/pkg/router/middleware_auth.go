package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/safemeet/internal/pkg/jwt"
)

// middlewareAuthentication requires a bearer token on every route outside
// public. Verified claims are stored on the request context.
func middlewareAuthentication(verifier jwt.JWT, public routeSet) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public.has(r) {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
			token = strings.TrimSpace(token)
			if !ok || token == "" || !strings.EqualFold(scheme, "Bearer") {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			if verifier == nil {
				writeJSON(w, errorResponse{Message: "Authentication unavailable"}, http.StatusServiceUnavailable)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				writeJSON(w, errorResponse{Message: "Invalid or expired token"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}
