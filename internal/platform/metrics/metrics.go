// Package metrics holds the process-wide prometheus collectors
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registry all collectors below are registered with
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// StateResolutions counts state fingerprint resolutions by outcome ("ok" or the failure kind)
	StateResolutions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sxl",
		Name:      "state_resolutions_total",
		Help:      "State fingerprint resolutions by outcome",
	}, []string{"outcome"})

	// LiteBuilds counts lite file builds by status ("built", "skipped", "failed")
	LiteBuilds = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sxl",
		Name:      "lite_builds_total",
		Help:      "Lite file builds by status",
	}, []string{"status"})

	// LiteBuildDuration observes wall time of completed lite builds
	LiteBuildDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sxl",
		Name:      "lite_build_duration_seconds",
		Help:      "Lite file build duration in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4m
	})

	// PanelEvents counts event ids remapped per panel
	PanelEvents = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sxl",
		Name:      "lite_panel_events_total",
		Help:      "Event ids remapped to superpixels, by panel",
	}, []string{"panel"})

	// HTTPRequests counts API requests by route pattern and status
	HTTPRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sxl",
		Name:      "http_requests_total",
		Help:      "API requests by route and status",
	}, []string{"route", "status"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Since observes the seconds elapsed from start on h
func Since(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
