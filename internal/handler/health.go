package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger checks that a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectionChecker reports whether a long-lived connection is up.
type ConnectionChecker interface {
	IsConnected() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store  Pinger
	events ConnectionChecker
}

// NewHealthHandler creates a new health handler. Either dependency may be nil
// when that backend is not in use.
func NewHealthHandler(store Pinger, events ConnectionChecker) *HealthHandler {
	return &HealthHandler{
		store:  store,
		events: events,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"reason": "database unreachable",
			})
			return
		}
	}

	body := map[string]string{"status": "ready"}
	// Events are best-effort, so a NATS outage does not take the API out of rotation.
	if h.events != nil {
		if h.events.IsConnected() {
			body["events"] = "ok"
		} else {
			body["events"] = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, body)
}
