package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "clientsdb"

var (
	businessIDsIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "business_ids_issued_total",
			Help:      "Total number of business ids issued.",
		},
		[]string{"kind"},
	)

	authAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Total number of authentication attempts.",
		},
		[]string{"method", "outcome"},
	)

	domainErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_errors_total",
			Help:      "Total number of domain errors returned to callers.",
		},
		[]string{"kind"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Total number of requests rejected by the rate limiter.",
		},
	)
)

// Collectors are registered on the default registerer, which is the one
// served at /metrics alongside the HTTP request metrics.
func init() {
	prometheus.MustRegister(
		businessIDsIssued,
		authAttempts,
		domainErrors,
		rateLimited,
	)
}

// RecordBusinessID counts one issued business id of kind.
func RecordBusinessID(kind string) {
	businessIDsIssued.WithLabelValues(kind).Inc()
}

// RecordAuthAttempt counts one authentication attempt.
func RecordAuthAttempt(method string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	authAttempts.WithLabelValues(method, outcome).Inc()
}

// RecordDomainError counts one domain error by kind.
func RecordDomainError(kind string) {
	domainErrors.WithLabelValues(kind).Inc()
}

// RecordRateLimited counts one rejected request.
func RecordRateLimited() {
	rateLimited.Inc()
}
