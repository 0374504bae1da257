package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/pkg/logger"
)

// RecoveryMiddleware turns a panic into a 500 envelope and logs the stack.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.From(r.Context()).Error("panic recovered",
				"panic", rec,
				"method", r.Method,
				"url", r.URL.String(),
				"stack", string(debug.Stack()))

			status, body := internal.NewInternalError("Internal server error", nil).ToHTTPResponse()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		}()

		next.ServeHTTP(w, r)
	})
}
