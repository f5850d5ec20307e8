// Package metrics exposes Prometheus instrumentation for the optimizer and
// notification delivery. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "plantops"

// Metrics holds the collectors registered for one process.
type Metrics struct {
	registry *prometheus.Registry

	runs                 *prometheus.CounterVec
	runDuration          prometheus.Histogram
	assignments          prometheus.Counter
	skips                *prometheus.CounterVec
	taskErrors           prometheus.Counter
	notificationsSent    *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "runs_total",
			Help:      "Optimizer runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "run_duration_seconds",
			Help:      "Wall time of optimizer runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		assignments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "assignments_total",
			Help:      "Tasks assigned by the optimizer.",
		}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "skips_total",
			Help:      "Tasks the optimizer left unassigned, by reason.",
		}, []string{"reason"}),
		taskErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "task_errors_total",
			Help:      "Per-task write failures during optimizer runs.",
		}),
		notificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "sent_total",
			Help:      "Notifications delivered, by type.",
		}, []string{"type"}),
		notificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "failures_total",
			Help:      "Notifications that could not be delivered, by type.",
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		m.runs,
		m.runDuration,
		m.assignments,
		m.skips,
		m.taskErrors,
		m.notificationsSent,
		m.notificationFailures,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RunFinished records one optimizer run.
func (m *Metrics) RunFinished(outcome string, assigned int, skipped map[string]int, taskErrors int, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(d.Seconds())
	m.assignments.Add(float64(assigned))
	for reason, n := range skipped {
		m.skips.WithLabelValues(reason).Add(float64(n))
	}
	m.taskErrors.Add(float64(taskErrors))
}

// NotificationSent records a delivered notification.
func (m *Metrics) NotificationSent(notificationType string) {
	if m == nil {
		return
	}
	m.notificationsSent.WithLabelValues(notificationType).Inc()
}

// NotificationFailed records a notification that could not be delivered.
func (m *Metrics) NotificationFailed(notificationType string) {
	if m == nil {
		return
	}
	m.notificationFailures.WithLabelValues(notificationType).Inc()
}
