// Package metrics exposes the server's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codehive_connections_active",
		Help: "Currently open websocket connections.",
	})

	EventsRouted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codehive_events_routed_total",
		Help: "Client events dispatched, by event type.",
	}, []string{"type"})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codehive_events_dropped_total",
		Help: "Events dropped for missing room, bad payload or backpressure.",
	})

	DebounceFlushes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codehive_debounce_flushes_total",
		Help: "Write-back debouncer flush cycles.",
	})

	StoreWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codehive_store_write_failures_total",
		Help: "Durable store writes that failed and were dropped.",
	})
)

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
