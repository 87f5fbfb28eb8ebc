package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activityPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitness",
		Subsystem: "persistence",
		Name:      "last_activity_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity written to Postgres.",
	})
	activitiesDeletedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "persistence",
		Name:      "activities_deleted_total",
		Help:      "Number of activities deleted by their owners.",
	})
	metricsComputedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "aggregation",
		Name:      "metrics_computed_total",
		Help:      "Number of metrics computations, labelled by period.",
	}, []string{"period"})
)

func init() {
	prometheus.MustRegister(activityPersistGauge, activitiesDeletedCounter, metricsComputedCounter)
}

// RecordActivityPersisted updates the persistence watermark gauge.
func RecordActivityPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	activityPersistGauge.Set(float64(ts.Unix()))
}

// RecordActivityDeleted counts a completed delete.
func RecordActivityDeleted() {
	activitiesDeletedCounter.Inc()
}

// RecordMetricsComputed counts one aggregation pass for the given period.
func RecordMetricsComputed(period string) {
	metricsComputedCounter.WithLabelValues(period).Inc()
}
