package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/recruitment/pkg/logger"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// maxLoggedBody caps how much of a JSON request body ends up in debug logs.
const maxLoggedBody = 4 << 10

var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"cookie",
	"credential",
}

// LoggingMiddleware logs one line per request with status and latency.
// Request bodies are only logged at debug level, with sensitive keys masked.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lg := logger.From(r.Context())

		if lg.Enabled(r.Context(), slog.LevelDebug) && isJSON(r) {
			lg.Debug("incoming request",
				"method", r.Method,
				"path", r.URL.Path,
				"headers", filterSensitiveHeaders(r.Header),
				"body", peekBody(r))
		}

		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		lg.Log(r.Context(), level, "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		)
	})
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// peekBody reads up to maxLoggedBody bytes and restores the body for the handler.
func peekBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	head, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	if err != nil {
		return ""
	}
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	return filterSensitiveBody(head)
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, f := range sensitiveFields {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			filtered[name] = "[FILTERED]"
			continue
		}
		filtered[name] = strings.Join(values, ", ")
	}
	return filtered
}

func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return "[UNPARSEABLE BODY]"
	}
	out, err := json.Marshal(filterSensitiveJSON(data))
	if err != nil {
		return "[UNPARSEABLE BODY]"
	}
	return string(out)
}

func filterSensitiveJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		filtered := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				filtered[key] = "[FILTERED]"
			} else {
				filtered[key] = filterSensitiveJSON(value)
			}
		}
		return filtered
	case []interface{}:
		filtered := make([]interface{}, len(v))
		for i, item := range v {
			filtered[i] = filterSensitiveJSON(item)
		}
		return filtered
	default:
		return v
	}
}
