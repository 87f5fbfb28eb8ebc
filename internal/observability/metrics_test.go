package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func gatherMetric(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	return nil
}

func TestRecordActivityPersisted(t *testing.T) {
	ts := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	RecordActivityPersisted(ts)

	family := gatherMetric(t, "fitness_persistence_last_activity_persisted_timestamp_seconds")
	require.NotNil(t, family)
	require.Len(t, family.GetMetric(), 1)
	require.Equal(t, float64(ts.Unix()), family.GetMetric()[0].GetGauge().GetValue())
}

func TestRecordActivityPersistedIgnoresZeroTime(t *testing.T) {
	ts := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	RecordActivityPersisted(ts)
	RecordActivityPersisted(time.Time{})

	family := gatherMetric(t, "fitness_persistence_last_activity_persisted_timestamp_seconds")
	require.NotNil(t, family)
	require.Equal(t, float64(ts.Unix()), family.GetMetric()[0].GetGauge().GetValue())
}

func TestRecordActivityDeleted(t *testing.T) {
	before := 0.0
	if family := gatherMetric(t, "fitness_persistence_activities_deleted_total"); family != nil {
		before = family.GetMetric()[0].GetCounter().GetValue()
	}

	RecordActivityDeleted()

	family := gatherMetric(t, "fitness_persistence_activities_deleted_total")
	require.NotNil(t, family)
	require.Equal(t, before+1, family.GetMetric()[0].GetCounter().GetValue())
}

func TestRecordMetricsComputedLabels(t *testing.T) {
	RecordMetricsComputed("week")
	RecordMetricsComputed("week")
	RecordMetricsComputed("all")

	family := gatherMetric(t, "fitness_aggregation_metrics_computed_total")
	require.NotNil(t, family)

	values := make(map[string]float64)
	for _, metric := range family.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "period" {
				values[label.GetValue()] = metric.GetCounter().GetValue()
			}
		}
	}
	require.GreaterOrEqual(t, values["week"], 2.0)
	require.GreaterOrEqual(t, values["all"], 1.0)
}
