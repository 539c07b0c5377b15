// Package metrics holds the Prometheus instruments for the incidents API.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	incidentsCreated prometheus.Counter
	pinOps           *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
}

// New registers the instrument set on reg. Pass a fresh registry in tests
// to avoid duplicate-registration panics.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		incidentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incidents",
			Name:      "created_total",
			Help:      "Incidents accepted by the storage engine",
		}),
		pinOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incidents",
			Name:      "pin_operations_total",
			Help:      "Remote pinning operations by op and status",
		}, []string{"op", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incidents",
			Name:      "cache_lookups_total",
			Help:      "Local cache lookups in the remote-pinned backend",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incidents",
			Name:      "http_requests_total",
			Help:      "API requests by route and status code",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(m.incidentsCreated, m.pinOps, m.cacheLookups, m.httpRequests)
	return m
}

// The observe helpers are nil-safe so backends can run without metrics
// wired (unit tests, throwaway tooling).

func (m *Metrics) ObserveCreated() {
	if m == nil {
		return
	}
	m.incidentsCreated.Inc()
}

func (m *Metrics) ObservePin(op string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.pinOps.WithLabelValues(op, status).Inc()
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveHTTP(route string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
