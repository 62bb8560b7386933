// Package metrics provides prometheus instrumentation for the phone book
// service: HTTP request metrics and domain counters.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector, registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	InFlight         prometheus.Gauge
	CompaniesCreated prometheus.Counter
	PersonsCreated   prometheus.Counter
	UpdateConflicts  prometheus.Counter
}

// New creates a new Metrics instance with all collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "phonebook_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "phonebook_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "phonebook_http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		}),
		CompaniesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "phonebook_companies_created_total",
			Help: "Total number of companies created",
		}),
		PersonsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "phonebook_persons_created_total",
			Help: "Total number of persons created",
		}),
		UpdateConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "phonebook_person_update_conflicts_total",
			Help: "Person updates rejected because the record changed since it was read",
		}),
	}
}

// IncrementCompanyCreated records a successful company creation.
func (m *Metrics) IncrementCompanyCreated() {
	m.CompaniesCreated.Inc()
}

// IncrementPersonCreated records a successful person creation.
func (m *Metrics) IncrementPersonCreated() {
	m.PersonsCreated.Inc()
}

// IncrementUpdateConflict records an unrecovered optimistic concurrency conflict.
func (m *Metrics) IncrementUpdateConflict() {
	m.UpdateConflicts.Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
