// Package metrics exposes Prometheus collectors for the HTTP layer, the
// request lifecycle and the background jobs.
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

const namespace = "gearguard"

// Metrics holds every collector of the service. All methods are no-ops on a nil receiver.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	stageTransitions *prometheus.CounterVec
	equipmentScraps  prometheus.Counter
	notifications    *prometheus.CounterVec
	jobRuns          *prometheus.CounterVec
	overdueRequests  prometheus.Gauge
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg and serves them from gatherer
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: gatherer,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		stageTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_stage_transitions_total",
			Help:      "Maintenance request writes that changed the stage, by target stage.",
		}, []string{"stage"}),
		equipmentScraps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equipment_scrapped_total",
			Help:      "Equipment deactivated by scrapped maintenance requests.",
		}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Notifications delivered, by kind.",
		}, []string{"kind"}),
		jobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Background job runs by job and result.",
		}, []string{"job", "result"}),
		overdueRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "overdue_requests",
			Help:      "Overdue maintenance requests found by the last reminder run.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served HTTP request
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// StageTransition counts a request moved to stage
func (m *Metrics) StageTransition(stage string) {
	if m == nil {
		return
	}
	m.stageTransitions.WithLabelValues(stage).Inc()
}

// EquipmentScrapped counts equipment deactivated by a scrap event
func (m *Metrics) EquipmentScrapped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.equipmentScraps.Add(float64(n))
}

// NotificationSent counts a delivered notification
func (m *Metrics) NotificationSent(kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind).Inc()
}

// JobRun counts a background job run; err selects the result label
func (m *Metrics) JobRun(job string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.jobRuns.WithLabelValues(job, result).Inc()
}

// SetOverdueRequests records the overdue count of the last reminder run
func (m *Metrics) SetOverdueRequests(n int) {
	if m == nil {
		return
	}
	m.overdueRequests.Set(float64(n))
}
