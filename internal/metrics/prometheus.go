// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the integrity and revenue engine.
var (
	// Counters.
	ReputationEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reputation_events_total",
			Help: "Total number of reputation events recorded",
		},
		[]string{"event_type"},
	)

	ScoreCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_cache_lookups_total",
			Help: "Total reputation score cache lookups",
		},
		[]string{"result"},
	)

	LabelMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integrity_label_mutations_total",
			Help: "Total integrity label applications and removals",
		},
		[]string{"operation", "label_type"},
	)

	ContentHoldsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_holds_total",
			Help: "Total content risk assessments that advised a hold",
		},
		[]string{"risk_level"},
	)

	RevenueRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revenue_runs_total",
			Help: "Total revenue generation runs",
		},
		[]string{"status"},
	)

	AuditWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Total audit log writes that failed and were absorbed",
		},
	)

	SchedulerRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_runs_total",
			Help: "Total scheduled revenue job executions",
		},
		[]string{"status"},
	)

	// Gauges.
	SchedulerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scheduler_last_run_timestamp_seconds",
			Help: "Unix timestamp of the last scheduled revenue job run",
		},
	)

	RevenuePoolDollars = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "revenue_pool_dollars",
			Help: "Journalist pool size of the last revenue calculation",
		},
		[]string{"period"},
	)

	RevenueGiniCoefficient = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "revenue_gini_coefficient",
			Help: "Gini coefficient of the last revenue distribution",
		},
		[]string{"period"},
	)

	// Histograms.
	SchedulerJobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scheduler_job_duration_seconds",
			Help:    "Duration of scheduled revenue job executions",
			Buckets: prometheus.DefBuckets,
		},
	)

	ReputationScoreObserved = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reputation_score_observed",
			Help:    "Reputation scores observed after ledger updates",
			Buckets: prometheus.LinearBuckets(0, 10, 11), // 0 to 100
		},
	)

	IntegrityMultiplierObserved = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "integrity_multiplier_observed",
			Help:    "Integrity multipliers computed during revenue runs",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 15), // 0.1 to 1.5
		},
	)
)

// RecordReputationEvent increments the reputation event counter and observes
// the resulting score.
func RecordReputationEvent(eventType string, newScore float64) {
	ReputationEventsTotal.WithLabelValues(eventType).Inc()
	ReputationScoreObserved.Observe(newScore)
}

// RecordScoreCacheLookup records a cache hit or miss.
func RecordScoreCacheLookup(result string) {
	ScoreCacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordLabelMutation records a label apply or remove.
func RecordLabelMutation(operation, labelType string) {
	LabelMutationsTotal.WithLabelValues(operation, labelType).Inc()
}

// RecordContentHold records a risk assessment that advised holding publication.
func RecordContentHold(riskLevel string) {
	ContentHoldsTotal.WithLabelValues(riskLevel).Inc()
}

// RecordRevenueRun records a revenue generation run outcome.
func RecordRevenueRun(status string) {
	RevenueRunsTotal.WithLabelValues(status).Inc()
}

// RecordAuditWriteFailure counts an absorbed audit sink failure.
func RecordAuditWriteFailure() {
	AuditWriteFailuresTotal.Inc()
}

// RecordSchedulerRun records a scheduled job outcome and observes its
// duration in seconds.
func RecordSchedulerRun(status string, durationSeconds float64) {
	SchedulerRunsTotal.WithLabelValues(status).Inc()
	SchedulerJobDuration.Observe(durationSeconds)
	SchedulerLastRunTimestamp.SetToCurrentTime()
}
