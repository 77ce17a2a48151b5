package middlewares

import (
	"log/slog"
	"net/http"
	"runtime"
)

// recoverStackSize caps the logged stack trace.
const recoverStackSize = 4096

// Recover turns handler panics into a 500 response and a structured log
// entry with the stack trace. http.ErrAbortHandler passes through so
// deliberate connection aborts keep working.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := make([]byte, recoverStackSize)
				stack = stack[:runtime.Stack(stack, false)]
				logger.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("stack", string(stack)),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
