package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/citypulse/citypulse/internal/rest"
	log "github.com/sirupsen/logrus"
)

// Prefix is stripped from incoming paths before they are forwarded.
const Prefix = "/api"

// Handler relays requests to the backend origin and returns its response unmodified.
type Handler struct {
	target *url.URL
	proxy  *httputil.ReverseProxy
}

// NewHandler creates the forwarding handler. An empty backendURL yields a handler that
// answers every request with 500.
func NewHandler(backendURL string) (*Handler, error) {
	backendURL = strings.TrimSpace(backendURL)
	if backendURL == "" {
		return &Handler{}, nil
	}

	target, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", backendURL, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: scheme and host are required", backendURL)
	}

	h := &Handler{target: target}
	h.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Path = stripPrefix(pr.In.URL.Path)
			pr.Out.URL.RawPath = stripPrefix(pr.In.URL.RawPath)
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Errorf("forwarding %s %s to backend failed: %v", r.Method, r.URL.Path, err)
			rest.WriteError(w, http.StatusBadGateway, "Failed to reach backend service", "")
		},
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.proxy == nil {
		log.Error("backend URL is not configured")
		rest.WriteError(w, http.StatusInternalServerError, "Backend service is not configured", "")
		return
	}
	log.Tracef("forwarding %s %s to %s", r.Method, r.URL.Path, h.target.Host)
	h.proxy.ServeHTTP(w, r)
}

func stripPrefix(path string) string {
	if path == "" {
		return ""
	}
	trimmed := strings.TrimPrefix(path, Prefix)
	if trimmed == "" {
		return "/"
	}
	return trimmed
}
