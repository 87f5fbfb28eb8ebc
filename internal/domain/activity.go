package domain

import (
	"errors"
	"time"
)

// ErrActivityNotFound is returned when an activity does not exist or is not
// owned by the requesting user. The two cases are indistinguishable so that
// record identifiers never leak across accounts.
var ErrActivityNotFound = errors.New("activity not found")

// ActivityType is one of the fixed set of supported exercise categories.
type ActivityType string

const (
	TypeRunning       ActivityType = "Running"
	TypeCycling       ActivityType = "Cycling"
	TypeSwimming      ActivityType = "Swimming"
	TypeWeightlifting ActivityType = "Weightlifting"
	TypeYoga          ActivityType = "Yoga"
	TypeWalking       ActivityType = "Walking"
	TypeHiking        ActivityType = "Hiking"
	TypeOther         ActivityType = "Other"
)

// ActivityTypes lists every supported activity type in display order.
func ActivityTypes() []ActivityType {
	return []ActivityType{
		TypeRunning,
		TypeCycling,
		TypeSwimming,
		TypeWeightlifting,
		TypeYoga,
		TypeWalking,
		TypeHiking,
		TypeOther,
	}
}

// Known reports whether t is a member of the supported set.
func (t ActivityType) Known() bool {
	switch t {
	case TypeRunning, TypeCycling, TypeSwimming, TypeWeightlifting,
		TypeYoga, TypeWalking, TypeHiking, TypeOther:
		return true
	}
	return false
}

// Activity is the canonical workout record stored in PostgreSQL.
// DistanceKM and CaloriesBurned are nil when the user did not record them,
// which matters for aggregation: absent values are skipped, not zeroed.
type Activity struct {
	ID             string
	UserID         string
	ActivityType   ActivityType
	DurationMin    int
	DistanceKM     *float64
	CaloriesBurned *int
	Date           time.Time
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
