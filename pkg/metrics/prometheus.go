package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	triggeredTotal *prometheus.CounterVec
	activeAlerts   *prometheus.GaugeVec
	jobRuns        *prometheus.CounterVec
	jobDuration    *prometheus.HistogramVec
	errorsTotal    *prometheus.CounterVec
	notifications  prometheus.Counter
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		triggeredTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alerthub_alerts_triggered_total",
				Help: "Total number of alerts triggered",
			},
			[]string{"kind"},
		),
		activeAlerts: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "alerthub_active_alerts",
				Help: "Number of working alerts in storage",
			},
			[]string{"kind"},
		),
		jobRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alerthub_job_runs_total",
				Help: "Total number of scheduled job runs",
			},
			[]string{"job", "status"},
		),
		jobDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "alerthub_job_duration_seconds",
				Help:    "Duration of scheduled jobs in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"job"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alerthub_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		notifications: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "alerthub_notifications_sent_total",
				Help: "Total number of notification reports sent",
			},
		),
	}
}

// RecordTriggered records alerts moved to triggered state.
func (r *Recorder) RecordTriggered(kind string, n int) {
	if n > 0 {
		r.triggeredTotal.WithLabelValues(kind).Add(float64(n))
	}
}

// SetActiveAlerts records the current working alert count.
func (r *Recorder) SetActiveAlerts(kind string, n int) {
	r.activeAlerts.WithLabelValues(kind).Set(float64(n))
}

// RecordJobRun records a job execution with its outcome and duration.
func (r *Recorder) RecordJobRun(job, status string, seconds float64) {
	r.jobRuns.WithLabelValues(job, status).Inc()
	r.jobDuration.WithLabelValues(job).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordNotification records a sent notification report.
func (r *Recorder) RecordNotification() {
	r.notifications.Inc()
}
