package board

import (
	"net/http"

	"github.com/citypulse/citypulse/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting board")
	rest.WriteJSON(w, http.StatusOK, h.service.Load(r.Context()))
}
