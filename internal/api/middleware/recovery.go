package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/blaisecz/sleep-bot/internal/logging"
	"github.com/blaisecz/sleep-bot/pkg/problem"
)

// Recovery recovers from handler panics and returns a 500 problem response
func Recovery(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic_recovered",
						"error", err,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					problem.InternalError("An unexpected error occurred").Write(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
