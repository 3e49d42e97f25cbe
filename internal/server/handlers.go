package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"maree/internal/shared"
)

// writeJSON renders v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the shared error taxonomy onto HTTP status codes and
// renders the message as {"error": ...}.
//
// Validation problems are the guest's to fix (400), upstream problems get a
// 502 and a retry prompt client-side; nothing here retries automatically.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, shared.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrUnauthorized), errors.Is(err, shared.ErrSessionExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, shared.ErrUpstream), errors.Is(err, shared.ErrUpstreamAuth):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// Routes returns the HTTP routes this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"/api/health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

var _ Handler = (*HealthHandler)(nil)
