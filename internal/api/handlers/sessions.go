package handlers

import (
	"net/http"

	"carpool-route-service/internal/api/dto"
	"carpool-route-service/internal/ports"
	"carpool-route-service/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SessionHandler struct {
	Registry      *services.SessionRegistry
	Source        ports.PassengerSource
	DefaultStatus string
	Log           *zap.Logger
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*services.RoutingSession, bool) {
	s, err := h.Registry.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return nil, false
	}
	return s, true
}

// Create opens a routing session over the currently selectable passengers.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest
	if err := readJSON(w, r, &req, true); err != nil {
		writeBadRequest(w, r, h.Log, err)
		return
	}

	status := req.Status
	if status == "" {
		status = h.DefaultStatus
	}

	ps, err := services.LoadSelectablePassengers(r.Context(), h.Source, status, h.Log)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	s := h.Registry.Create(ps)
	writeData(w, r, h.Log, http.StatusCreated, "session created", dto.CreateSessionResponse{
		SessionID:  s.ID(),
		Passengers: dto.Passengers(ps),
	})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeData(w, r, h.Log, http.StatusOK, "session", dto.Session(s.Snapshot()))
}

// Toggle flips one passenger in the selection. The route is recomputed in
// the background; poll Get for the result.
func (h *SessionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.ToggleRequest
	if err := readJSON(w, r, &req, false); err != nil {
		writeBadRequest(w, r, h.Log, err)
		return
	}

	selected, err := s.Toggle(req.PassengerID)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeData(w, r, h.Log, http.StatusAccepted, "selection updated", dto.ToggleResponse{
		PassengerID: req.PassengerID,
		Selected:    selected,
	})
}

func (h *SessionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.Remove(chi.URLParam(r, "passengerID")); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	writeData(w, r, h.Log, http.StatusAccepted, "passenger removed", dto.Session(s.Snapshot()))
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.Reset(); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	writeData(w, r, h.Log, http.StatusOK, "selection cleared", dto.Session(s.Snapshot()))
}

func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.Registry.Close(chi.URLParam(r, "sessionID")); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	writeData(w, r, h.Log, http.StatusOK, "session closed", nil)
}
