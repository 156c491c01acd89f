package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service exports. Each instance owns its
// registry so tests can build as many as they need.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	SitesGenerated      prometheus.Counter
	EditsRecorded       prometheus.Counter
	PaymentsAccepted    *prometheus.CounterVec
	DeliveriesTotal     *prometheus.CounterVec
	DeliveryDuration    prometheus.Histogram
	ImageSearchTotal    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		SitesGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "webgen_sites_generated_total",
			Help: "Sites generated through the API.",
		}),
		EditsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "webgen_edits_recorded_total",
			Help: "Editor modifications appended to sites.",
		}),
		PaymentsAccepted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webgen_payments_accepted_total",
				Help: "Payments accepted, by offer type.",
			},
			[]string{"offer_type"},
		),
		DeliveriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webgen_deliveries_total",
				Help: "Delivery attempts, by outcome (delivered, failed, retried, missing).",
			},
			[]string{"outcome"},
		),
		DeliveryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "webgen_delivery_duration_seconds",
			Help:    "Duration of one delivery attempt.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		}),
		ImageSearchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webgen_image_search_total",
				Help: "Image searches, by source (unsplash, placeholder).",
			},
			[]string{"source"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
