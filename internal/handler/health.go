package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger is the storage health probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the service can reach its database.
type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// HandleHealth answers GET /healthz with 200 {"status":"ok"}, or 503 when
// the database does not respond within two seconds.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
