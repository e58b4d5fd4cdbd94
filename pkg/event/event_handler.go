package event

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/citypulse/citypulse/internal/rest"
	"github.com/citypulse/citypulse/pkg/provider"
	log "github.com/sirupsen/logrus"
)

// CreateFunc persists an admin-submitted event and returns it with its assigned id.
type CreateFunc func(ctx context.Context, e Event) (Event, error)

type EventDTO struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Venue       string `json:"venue"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
	URL         string `json:"url"`
	Price       string `json:"price"`
}

type EventHandler struct {
	service Service
	create  CreateFunc
}

func NewEventHandler(service Service, create CreateFunc) *EventHandler {
	return &EventHandler{service: service, create: create}
}

func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting upcoming events")

	events, err := h.service.Upcoming(r.Context())
	if err != nil {
		if !errors.Is(err, ErrNoEvents) {
			log.Errorf("unexpected aggregation error: %v", err)
		}
		rest.WriteError(w, http.StatusNotFound, "No events found.", "")
		return
	}

	rest.WriteJSON(w, http.StatusOK, events)
	log.Tracef("Events returned: %d", len(events))
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating event")

	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	if missing := MissingRequiredFields(dto); len(missing) > 0 {
		rest.WriteError(w, http.StatusBadRequest,
			"Missing required fields: "+strings.Join(missing, ", "),
			"title, date, time and venue are required")
		return
	}

	created, err := h.create(r.Context(), EventFromDTO(dto))
	if err != nil {
		if provider.KindOf(err) == provider.KindValidation {
			rest.WriteError(w, http.StatusBadRequest, provider.MessageOf(err), "")
			return
		}
		log.Errorf("failed to create event: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	rest.WriteJSON(w, http.StatusCreated, created)
}

// MissingRequiredFields lists the required fields left blank in dto, in display order.
func MissingRequiredFields(dto EventDTO) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"title", dto.Title},
		{"date", dto.Date},
		{"time", dto.Time},
		{"venue", dto.Venue},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// EventFromDTO converts a request body into an Event without an id.
func EventFromDTO(dto EventDTO) Event {
	return Event{
		Title:       strings.TrimSpace(dto.Title),
		Date:        strings.TrimSpace(dto.Date),
		Time:        strings.TrimSpace(dto.Time),
		Venue:       strings.TrimSpace(dto.Venue),
		Category:    strings.TrimSpace(dto.Category),
		Description: strings.TrimSpace(dto.Description),
		Image:       strings.TrimSpace(dto.Image),
		URL:         strings.TrimSpace(dto.URL),
		Price:       strings.TrimSpace(dto.Price),
	}
}
