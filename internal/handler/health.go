package handler

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"arbor/internal/httputil"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	pool *pgxpool.Pool
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{pool: pool}
}

// Check reports whether the server and its database are reachable
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.Ping(r.Context()); err != nil {
		httputil.RespondError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
