package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shutterhub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and route.",
		},
		[]string{"method", "route", "status"},
	)

	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shutterhub",
			Name:      "ws_connections",
			Help:      "Currently open websocket connections.",
		},
	)

	fanoutDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shutterhub",
			Name:      "fanout_dropped_total",
			Help:      "Events dropped because a client send buffer was full.",
		},
	)

	galleryAccesses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shutterhub",
			Name:      "gallery_accesses_total",
			Help:      "Public gallery lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, wsConnections, fanoutDropped, galleryAccesses)
	})
}

func IncHTTP(method, route, status string) {
	httpRequests.WithLabelValues(method, route, status).Inc()
}

func WSConnOpened() { wsConnections.Inc() }
func WSConnClosed() { wsConnections.Dec() }

func IncFanoutDropped() { fanoutDropped.Inc() }

func IncGalleryAccess(outcome string) {
	galleryAccesses.WithLabelValues(outcome).Inc()
}
