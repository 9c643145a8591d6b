// Package metrics exposes Prometheus counters for dispatches and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ModeImageEdit = "image_edit"
	ModeText      = "text"

	OutcomeSuccess = "success"
)

// Collector owns its registry so several instances can live in one process
// (tests, multiple servers).
type Collector struct {
	registry *prometheus.Registry

	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	fallbackTotal    *prometheus.CounterVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		dispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_total",
				Help:      "Provider dispatches by mode and outcome. Outcome is success or the error kind.",
			},
			[]string{"provider", "mode", "outcome"},
		),
		dispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Provider dispatch latency in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"provider", "mode"},
		),
		fallbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "completion_fallback_total",
				Help:      "Text completions answered by the static fallback",
			},
			[]string{"reason"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// RecordDispatch counts one provider call. An empty outcome is recorded as
// success.
func (c *Collector) RecordDispatch(provider, mode, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	if outcome == "" {
		outcome = OutcomeSuccess
	}
	c.dispatchTotal.WithLabelValues(provider, mode, outcome).Inc()
	c.dispatchDuration.WithLabelValues(provider, mode).Observe(elapsed.Seconds())
}

func (c *Collector) RecordFallback(reason string) {
	if c == nil {
		return
	}
	c.fallbackTotal.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// DispatchCounter returns the dispatch counter for one label set.
func (c *Collector) DispatchCounter(provider, mode, outcome string) prometheus.Counter {
	return c.dispatchTotal.WithLabelValues(provider, mode, outcome)
}

func (c *Collector) FallbackCounter(reason string) prometheus.Counter {
	return c.fallbackTotal.WithLabelValues(reason)
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
