// Package metrics exposes the portal's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ngo_portal"

// Metrics holds every collector. It implements service.Recorder and the
// session manager's gauge hook.
type Metrics struct {
	// recordsCreated counts successful creates.
	// Labels: screen
	recordsCreated *prometheus.CounterVec

	// recordsDeleted counts confirmed deletions that removed a record.
	// Labels: screen
	recordsDeleted *prometheus.CounterVec

	// validationFailures counts rejected create submissions.
	// Labels: screen, reason (missing_fields, invalid_email)
	validationFailures *prometheus.CounterVec

	activeSessions prometheus.Gauge

	// httpDuration measures request latency.
	// Labels: method, route, status
	httpDuration *prometheus.HistogramVec
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		recordsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "created_total",
			Help:      "Records created, by screen",
		}, []string{"screen"}),
		recordsDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "deleted_total",
			Help:      "Records deleted, by screen",
		}, []string{"screen"}),
		validationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "validation_failures_total",
			Help:      "Create submissions rejected by validation",
		}, []string{"screen", "reason"}),
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Workspaces currently held in memory",
		}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) Created(screen string) { m.recordsCreated.WithLabelValues(screen).Inc() }
func (m *Metrics) Deleted(screen string) { m.recordsDeleted.WithLabelValues(screen).Inc() }

func (m *Metrics) ValidationFailed(screen, reason string) {
	m.validationFailures.WithLabelValues(screen, reason).Inc()
}

// SetActiveSessions reports the number of live workspaces.
func (m *Metrics) SetActiveSessions(n int) { m.activeSessions.Set(float64(n)) }

// Middleware observes request latency labelled by the matched route, so
// path parameters do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
