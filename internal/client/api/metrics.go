package api

import "github.com/prometheus/client_golang/prometheus"

const (
	refreshSuccess = "success"
	refreshFailure = "failure"
	refreshSkipped = "skipped"
)

type metrics struct {
	requests  *prometheus.CounterVec
	refreshes *prometheus.CounterVec
}

// newMetrics builds the pipeline collectors and registers them on reg when
// it is not nil.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guildadmin",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP requests sent to the backend, by method and status code.",
		}, []string{"method", "code"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guildadmin",
			Subsystem: "api",
			Name:      "token_refresh_total",
			Help:      "Access token refresh attempts, by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.refreshes)
	}
	return m
}
