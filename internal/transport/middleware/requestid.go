package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/recruitment/pkg/logger"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// RequestID propagates or mints a trace id, exposes it to chi's GetReqID and
// attaches a request-scoped logger carrying it.
func RequestID(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(TraceHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), chiMiddleware.RequestIDKey, traceID)
			ctx = logger.Attach(ctx, base.With("trace_id", traceID))

			w.Header().Set(TraceHeader, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
