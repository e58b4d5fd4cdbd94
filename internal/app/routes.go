package app

import (
	"net/http"

	"github.com/citypulse/citypulse/internal/metrics"
	"github.com/citypulse/citypulse/internal/rest"
	"github.com/citypulse/citypulse/pkg/proxy"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints. The backend forwarding route is
// registered last so it only receives /api requests no local route matched.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Operations
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Events
	r.HandleFunc("/api/events", deps.EventHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/events", deps.EventHandler.CreateEvent).Methods("POST")

	// News
	r.HandleFunc("/api/news", deps.NewsHandler.GetNews).Methods("GET")

	// Listing and board
	r.HandleFunc("/api/listing", deps.OverrideHandler.GetListing).Methods("GET")
	r.HandleFunc("/api/board", deps.BoardHandler.GetBoard).Methods("GET")

	// Admin
	r.HandleFunc("/api/admin/events", deps.OverrideHandler.GetAdminEvents).Methods("GET")
	r.HandleFunc("/api/admin/events", deps.OverrideHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/admin/events/{id}", deps.OverrideHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/admin/events/{id}", deps.OverrideHandler.DeleteEvent).Methods("DELETE")
	r.HandleFunc("/api/admin/events/{id}/toggle", deps.OverrideHandler.ToggleEvent).Methods("POST")

	// Backend forwarding
	r.Handle(proxy.Prefix, deps.ProxyHandler)
	r.PathPrefix(proxy.Prefix + "/").Handler(deps.ProxyHandler)
}
