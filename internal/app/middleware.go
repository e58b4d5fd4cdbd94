package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/citypulse/citypulse/internal/config"
	"github.com/citypulse/citypulse/internal/metrics"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wraps the router with the HTTP middlewares of the application.
// They wrap the whole router so unmatched routes and preflight requests pass through them too.
func SetupMiddleware(h http.Handler, cfg config.Application) http.Handler {
	return cors(cfg.Server.AllowedOrigin, requestLogging(h))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer for
// flushing and connection hijacking.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		requestId := req.Header.Get("X-Request-Id")
		if requestId == "" {
			requestId = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestId)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)

		metrics.IncHTTPRequest(req.Method, strconv.Itoa(rec.status))
		log.WithFields(log.Fields{
			"requestId": requestId,
			"method":    req.Method,
			"path":      req.URL.Path,
			"status":    rec.status,
			"duration":  time.Since(start).String(),
		}).Debug("request served")
	})
}

func cors(allowedOrigin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if allowedOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
		}
		if req.Method == http.MethodOptions && req.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}
