package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records alert pipeline activity for Prometheus scraping.
type Metrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	alertsRaisedTotal  prometheus.Counter
	notificationsTotal *prometheus.CounterVec
}

// NewMetrics registers the pipeline metrics with the given registerer.
// Tests pass a fresh registry to avoid duplicate registration panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		evaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budget_evaluations_total",
				Help: "Total number of budget alert evaluations by outcome",
			},
			[]string{"outcome"},
		),
		evaluationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "budget_evaluation_duration_milliseconds",
				Help:    "Budget alert evaluation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		alertsRaisedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "budget_alerts_raised_total",
				Help: "Total number of budget alerts created or escalated",
			},
		),
		notificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alert_notifications_total",
				Help: "Total number of alert notification attempts by status",
			},
			[]string{"status"},
		),
	}
}

// Evaluation outcomes.
const (
	OutcomeNoBudget  = "no_budget"
	OutcomeUnder     = "under_threshold"
	OutcomeRaised    = "raised"
	OutcomeEscalated = "escalated"
	OutcomeNoop      = "noop"
)

// Notification statuses.
const (
	NotifySent    = "sent"
	NotifyFailed  = "failed"
	NotifySkipped = "skipped"
)

// ObserveEvaluation records one evaluation with its outcome and duration.
func (m *Metrics) ObserveEvaluation(outcome string, elapsed time.Duration) {
	m.evaluationsTotal.WithLabelValues(outcome).Inc()
	m.evaluationDuration.Observe(float64(elapsed.Milliseconds()))
}

// AlertRaised counts a created or escalated alert.
func (m *Metrics) AlertRaised() {
	m.alertsRaisedTotal.Inc()
}

// NotificationAttempt counts one notification attempt by status.
func (m *Metrics) NotificationAttempt(status string) {
	m.notificationsTotal.WithLabelValues(status).Inc()
}
