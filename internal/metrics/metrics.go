package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "student_mgmt", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "student_mgmt", Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "student_mgmt", Name: "handler_errors_total", Help: "Unexpected handler errors",
	})
	EnrollmentRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "student_mgmt", Name: "enrollment_requests_total", Help: "Student enrollment requests by outcome",
	}, []string{"outcome"}) // created|existing
	WelcomeEmails = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "student_mgmt", Name: "welcome_emails_total", Help: "Welcome notifications by outcome",
	}, []string{"outcome"}) // sent|failed
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, HandlerErrors, EnrollmentRequests, WelcomeEmails)
}

func Handler() http.Handler { return promhttp.Handler() }

// ObserveEnrollmentRequest counts a self-service enrollment request.
func ObserveEnrollmentRequest(created bool) {
	if created {
		EnrollmentRequests.WithLabelValues("created").Inc()
		return
	}
	EnrollmentRequests.WithLabelValues("existing").Inc()
}

// ObserveWelcomeEmail counts a welcome notification attempt.
func ObserveWelcomeEmail(err error) {
	if err != nil {
		WelcomeEmails.WithLabelValues("failed").Inc()
		return
	}
	WelcomeEmails.WithLabelValues("sent").Inc()
}
