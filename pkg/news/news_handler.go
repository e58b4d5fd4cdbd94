package news

import (
	"net/http"

	"github.com/citypulse/citypulse/internal/rest"
	"github.com/citypulse/citypulse/pkg/provider"
	log "github.com/sirupsen/logrus"
)

type NewsHandler struct {
	service Service
}

func NewNewsHandler(service Service) *NewsHandler {
	return &NewsHandler{service: service}
}

func (h *NewsHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting latest news")

	items, err := h.service.Latest(r.Context())
	if err != nil {
		status, message := ErrorStatus(err)
		rest.WriteError(w, status, message, "")
		return
	}

	rest.WriteJSON(w, http.StatusOK, items)
}

// ErrorStatus maps a news lookup failure to the HTTP status and message shown to clients.
func ErrorStatus(err error) (int, string) {
	switch provider.KindOf(err) {
	case provider.KindConfig:
		log.Error("news API key is not configured")
		return http.StatusInternalServerError, "Missing configuration: news API key"
	case provider.KindUpstream:
		if status := provider.StatusOf(err); status != 0 {
			log.Warnf("news upstream responded with status %d: %v", status, err)
			return http.StatusBadGateway, "Failed to fetch news"
		}
	}
	log.Errorf("failed to fetch news: %v", err)
	return http.StatusInternalServerError, "Internal server error"
}
