package handlers

import (
	"database/sql"
	"net/http"
)

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Get handles the health check request.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	dbState := "ok"
	status := http.StatusOK
	if err := h.db.PingContext(r.Context()); err != nil {
		dbState = "unreachable"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, map[string]string{
		"status":  "OK",
		"dbState": dbState,
	})
}
