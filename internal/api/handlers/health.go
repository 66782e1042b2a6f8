package handlers

import (
	"net/http"

	"carpool-route-service/internal/api/dto"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, nil, http.StatusOK, dto.Envelope{Message: "ok", Data: map[string]string{"status": "ok"}})
}
