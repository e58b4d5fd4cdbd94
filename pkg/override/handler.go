package override

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/citypulse/citypulse/internal/rest"
	"github.com/citypulse/citypulse/pkg/event"
	"github.com/citypulse/citypulse/pkg/provider"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ToggleDTO struct {
	ID       string `json:"id"`
	Disabled bool   `json:"disabled"`
}

type Handler struct {
	service Service
	listing *Listing
}

func NewHandler(service Service, listing *Listing) *Handler {
	return &Handler{service: service, listing: listing}
}

func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting merged listing")

	merged, err := h.listing.Visible(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, merged.Events)
}

func (h *Handler) GetAdminEvents(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting admin events")

	merged, err := h.listing.Admin(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, merged.Events)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating custom event")

	var dto event.EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	created, err := h.service.AddCustom(r.Context(), event.EventFromDTO(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Debugf("Updating custom event: %s", id)

	var dto event.EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	e := event.EventFromDTO(dto)
	e.ID = id
	updated, err := h.service.UpdateCustom(r.Context(), e)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Debugf("Deleting custom event: %s", id)

	if err := h.service.DeleteCustom(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ToggleEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Debugf("Toggling event: %s", id)

	disabled, err := h.service.ToggleDisable(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToggleDTO{ID: id, Disabled: disabled})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, "Event not found", "")
	case provider.KindOf(err) == provider.KindValidation:
		rest.WriteError(w, http.StatusBadRequest, provider.MessageOf(err), "")
	default:
		log.Errorf("override store failure: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}
