package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus collectors for the payment operations API.
var (
	PaymentsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_created_total",
			Help: "Total number of payments accepted through the submission endpoint",
		},
	)

	PaymentRetryRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_retry_requests_total",
			Help: "Total number of retry requests received, including no-ops",
		},
	)

	StatusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_status_transitions_total",
			Help: "Total number of successful status transitions by target status",
		},
		[]string{"status"},
	)

	PaymentsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "payments_by_status",
			Help: "Number of payments per status as of the last analytics computation",
		},
		[]string{"status"},
	)

	HTTPRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of handled HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of handled HTTP requests by method and status code",
		},
		[]string{"method", "status"},
	)
)

// Register installs all collectors into the default registry.
func Register() {
	prometheus.MustRegister(PaymentsCreatedTotal)
	prometheus.MustRegister(PaymentRetryRequestsTotal)
	prometheus.MustRegister(StatusTransitionsTotal)
	prometheus.MustRegister(PaymentsByStatus)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestsTotal)
}
