package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/shandysiswandi/safemeet/internal/pkg/stacktrace"
)

// middlewareRecoverer turns a handler panic into a 500 envelope. Aborted
// handlers keep unwinding so net/http can drop the connection.
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:err113,errorlint // sentinel is compared by identity
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			stack := debug.Stack()
			var trace any = string(stack)
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				trace = paths
			}
			slog.ErrorContext(r.Context(), "panic while serving request",
				"route", routeKey(r),
				"because", rvr,
				"stack", trace,
			)

			writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
