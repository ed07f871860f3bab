// Package metrics holds the Prometheus collectors of the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts handled requests by route template, method and status code
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "academy",
		Name:      "http_requests_total",
		Help:      "Handled HTTP requests.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency by route template and method
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "academy",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// BulletinRenders counts rendered documents by kind and outcome
	BulletinRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "academy",
		Name:      "bulletin_renders_total",
		Help:      "Rendered bulletins.",
	}, []string{"kind", "outcome"})

	// MarksRecorded counts saved marks by path (single or bulk)
	MarksRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "academy",
		Name:      "marks_recorded_total",
		Help:      "Marks inserted or updated.",
	}, []string{"path"})
)

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
