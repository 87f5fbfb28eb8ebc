package domain

import (
	"sort"
	"time"
)

// Period selects the aggregation window for metrics.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ParsePeriod interprets a period parameter. The empty string resolves to
// week, matching the API default; anything else is rejected.
func ParsePeriod(raw string) (Period, bool) {
	switch Period(raw) {
	case "":
		return PeriodWeek, true
	case PeriodWeek, PeriodMonth, PeriodAll:
		return Period(raw), true
	}
	return "", false
}

// Start returns the inclusive lower bound of the window relative to now.
// PeriodAll has no bound.
func (p Period) Start(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, 0, -30), true
	}
	return time.Time{}, false
}

// TypeBreakdown aggregates the activities of one type within the filtered
// set. Count includes every record of the type; the distance and calorie
// sums cover only records where the value was present.
type TypeBreakdown struct {
	ActivityType  ActivityType
	Count         int
	TotalDuration int
	TotalDistance float64
	TotalCalories int
}

// MetricsResult holds sums, averages and the per-type distribution over a
// filtered record set. An empty set yields zeros throughout.
type MetricsResult struct {
	TotalDuration int
	TotalDistance float64
	TotalCalories int
	AvgDuration   float64
	AvgDistance   float64
	AvgCalories   float64
	Distribution  []TypeBreakdown
	Period        Period
}

// Reduce computes metrics over an already-filtered, materialized record set.
// It is a pure single pass: duration aggregates over every record, while
// distance and calories aggregate over present values only, so a record with
// no distance does not drag the distance average toward zero. Types with no
// matching records are omitted from the distribution rather than zero-filled.
func Reduce(activities []Activity, period Period) MetricsResult {
	result := MetricsResult{Period: period}

	var distanceCount, caloriesCount int
	byType := make(map[ActivityType]*TypeBreakdown)

	for _, act := range activities {
		entry := byType[act.ActivityType]
		if entry == nil {
			entry = &TypeBreakdown{ActivityType: act.ActivityType}
			byType[act.ActivityType] = entry
		}
		entry.Count++
		entry.TotalDuration += act.DurationMin
		result.TotalDuration += act.DurationMin

		if act.DistanceKM != nil {
			result.TotalDistance += *act.DistanceKM
			entry.TotalDistance += *act.DistanceKM
			distanceCount++
		}
		if act.CaloriesBurned != nil {
			result.TotalCalories += *act.CaloriesBurned
			entry.TotalCalories += *act.CaloriesBurned
			caloriesCount++
		}
	}

	if n := len(activities); n > 0 {
		result.AvgDuration = float64(result.TotalDuration) / float64(n)
	}
	if distanceCount > 0 {
		result.AvgDistance = result.TotalDistance / float64(distanceCount)
	}
	if caloriesCount > 0 {
		result.AvgCalories = float64(result.TotalCalories) / float64(caloriesCount)
	}

	result.Distribution = make([]TypeBreakdown, 0, len(byType))
	for _, entry := range byType {
		result.Distribution = append(result.Distribution, *entry)
	}
	sort.Slice(result.Distribution, func(i, j int) bool {
		return result.Distribution[i].ActivityType < result.Distribution[j].ActivityType
	})

	return result
}
