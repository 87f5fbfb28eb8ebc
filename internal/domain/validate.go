package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ValidationError maps field names to the constraint they violate. It is
// returned by input validation and reported to the caller field by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ActivityInput carries the user-settable fields of an activity. A zero Date
// means "unspecified" and defaults to the creation time.
type ActivityInput struct {
	ActivityType   ActivityType
	DurationMin    int
	DistanceKM     *float64
	CaloriesBurned *int
	Date           time.Time
	Notes          string
}

// Validate checks the field-level invariants shared by the API and the web
// form paths. It is pure: no input passes through to the store without it.
func (in ActivityInput) Validate() *ValidationError {
	fields := make(map[string]string)

	if !in.ActivityType.Known() {
		fields["activity_type"] = "must be one of the supported activity types"
	}
	if in.DurationMin <= 0 {
		fields["duration"] = "must be greater than 0"
	}
	if in.DistanceKM != nil && *in.DistanceKM < 0 {
		fields["distance"] = "cannot be negative"
	}
	if in.CaloriesBurned != nil && *in.CaloriesBurned <= 0 {
		fields["calories_burned"] = "must be greater than 0"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
