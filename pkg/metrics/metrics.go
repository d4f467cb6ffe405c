package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoemart_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shoemart_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "route", "status"},
	)
	contactMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoemart_contact_messages_total",
			Help: "Contact form submissions by outcome.",
		},
		[]string{"outcome"},
	)
	productSearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoemart_product_searches_total",
			Help: "Product searches, split by whether anything matched.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(contactMessagesTotal)
	prometheus.MustRegister(productSearchesTotal)
}

// RecordRequest records the count and latency of one HTTP request.
func RecordRequest(method, route string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordContactMessage counts a contact submission. outcome is one of
// "accepted", "invalid" or "failed".
func RecordContactMessage(outcome string) {
	contactMessagesTotal.WithLabelValues(outcome).Inc()
}

// RecordSearch counts a product search by whether it returned any product.
func RecordSearch(matches int) {
	result := "hit"
	if matches == 0 {
		result = "miss"
	}
	productSearchesTotal.WithLabelValues(result).Inc()
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// Handler exposes the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
