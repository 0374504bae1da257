package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/frahmantamala/recruitment/internal/notification"
	"github.com/jmoiron/sqlx"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

const healthCheckTimeout = 2 * time.Second

// ComponentCheck checks one dependency. Details are reported even when err is set.
type ComponentCheck func(ctx context.Context) (details map[string]any, err error)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	DurationMs int64          `json:"duration_ms"`
}

type HealthHandler struct {
	checks map[string]ComponentCheck
}

// NewHealthHandler always checks the database; more components are added with WithCheck.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{
		checks: map[string]ComponentCheck{"database": DatabaseCheck(db)},
	}
}

func (h *HealthHandler) WithCheck(name string, check ComponentCheck) *HealthHandler {
	h.checks[name] = check
	return h
}

func DatabaseCheck(db *sqlx.DB) ComponentCheck {
	return func(ctx context.Context) (map[string]any, error) {
		if err := db.PingContext(ctx); err != nil {
			return nil, err
		}
		stats := db.Stats()
		return map[string]any{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
			"wait_count":       stats.WaitCount,
		}, nil
	}
}

// NotificationCheck fails once the dispatcher stops accepting messages.
func NotificationCheck(d *notification.Dispatcher) ComponentCheck {
	return func(context.Context) (map[string]any, error) {
		stats := d.Stats()
		details := map[string]any{
			"queued":   stats.Queued,
			"capacity": stats.Capacity,
			"sent":     stats.Sent,
			"failed":   stats.Failed,
			"dropped":  stats.Dropped,
		}
		if stats.Closed {
			return details, errors.New("notification dispatcher is shut down")
		}
		return details, nil
	}
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:     HealthHealthy,
		Components: make(map[string]CheckEntry, len(h.checks)),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		start := time.Now()
		details, err := h.checks[name](ctx)

		entry := CheckEntry{Status: HealthHealthy, Details: details, DurationMs: time.Since(start).Milliseconds()}
		if err != nil {
			entry.Status = HealthUnhealthy
			entry.Message = err.Error()
			resp.Status = HealthUnhealthy
		}
		resp.Components[name] = entry
	}
	resp.CheckedAt = time.Now()

	code := http.StatusOK
	if resp.Status == HealthUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeHealthJSON(w, code, resp)
}

func writeHealthJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
