package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records request and prediction metrics on its own registry
type Collector struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	predictLatency prometheus.Histogram
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iris_app_requests_total",
				Help: "Total number of requests",
			},
			[]string{"endpoint"},
		),
		predictLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "iris_predict_latency_seconds",
				Help:    "Prediction latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// IncRequests increments the request count for an endpoint path
func (c *Collector) IncRequests(endpoint string) {
	c.requests.WithLabelValues(endpoint).Inc()
}

// ObservePredictLatency records the duration of one classify call
func (c *Collector) ObservePredictLatency(duration time.Duration) {
	c.predictLatency.Observe(duration.Seconds())
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the text exposition format. The Accept
// header is dropped so scrapers asking for protobuf still get text.
func (c *Collector) Handler() http.Handler {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		Registry: c.registry,
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.Clone(r.Context())
		r.Header.Del("Accept")
		h.ServeHTTP(w, r)
	})
}
