package handlers

import (
	"net/http"
	"strings"

	"carpool-route-service/internal/api/dto"
	"carpool-route-service/internal/ports"
	"carpool-route-service/internal/services"

	"go.uber.org/zap"
)

type PassengerHandler struct {
	Source        ports.PassengerSource
	DefaultStatus string
	Log           *zap.Logger
}

// List returns the passengers that can be selected for routing. Records
// without usable coordinates are left out.
func (h *PassengerHandler) List(w http.ResponseWriter, r *http.Request) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status == "" {
		status = h.DefaultStatus
	}

	ps, err := services.LoadSelectablePassengers(r.Context(), h.Source, status, h.Log)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeData(w, r, h.Log, http.StatusOK, "passengers", dto.ListPassengerResponse{
		Passengers: dto.Passengers(ps),
	})
}
