package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "citypulse"

var (
	registry = prometheus.NewRegistry()

	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Requests made to external providers by result (ok, empty, error)",
	}, []string{"provider", "result"})

	upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Time spent waiting on external providers",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})

	overrideMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "override_mutations_total",
		Help:      "Mutations applied to the override store by operation",
	}, []string{"operation"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served by method and status code",
	}, []string{"method", "code"})
)

func init() {
	registry.MustRegister(upstreamRequests, upstreamDuration, overrideMutations, httpRequests)
}

// Handler exposes the service registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveUpstream records one provider call that started at start.
func ObserveUpstream(provider string, start time.Time, count int, err error) {
	upstreamDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	switch {
	case err != nil:
		upstreamRequests.WithLabelValues(provider, "error").Inc()
	case count == 0:
		upstreamRequests.WithLabelValues(provider, "empty").Inc()
	default:
		upstreamRequests.WithLabelValues(provider, "ok").Inc()
	}
}

func IncOverrideMutation(operation string) {
	overrideMutations.WithLabelValues(operation).Inc()
}

func IncHTTPRequest(method string, code string) {
	httpRequests.WithLabelValues(method, code).Inc()
}

// UpstreamCount returns the current value of the upstream request counter.
func UpstreamCount(provider string, result string) float64 {
	var m dto.Metric
	if err := upstreamRequests.WithLabelValues(provider, result).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
