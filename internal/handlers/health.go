package handlers

import "net/http"

// HealthCheck reports liveness only; it does not probe the bus.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
