package services

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application Prometheus collectors
	Registry = prometheus.NewRegistry()

	// AuditEventsTotal counts audit rows written, per action
	AuditEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_total",
			Help: "Audit log entries written, by action.",
		},
		[]string{"action"},
	)

	// EmailsSentTotal counts notification emails by kind and outcome
	EmailsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Notification emails, by kind and result.",
		},
		[]string{"kind", "result"},
	)

	failedLoginsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_failed_logins_total",
			Help: "Rejected login attempts.",
		},
	)
)

func init() {
	Registry.MustRegister(
		AuditEventsTotal,
		EmailsSentTotal,
		failedLoginsTotal,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// MetricsHandler exposes the registered collectors
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
