package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mohamedamrelashry/fitness/internal/domain"
)

// formDateLayout matches the value format of <input type="datetime-local">.
const formDateLayout = "2006-01-02T15:04"

// parseActivityForm converts a submitted activity form into a domain input.
// Returned alongside are the raw values (for re-rendering) and any parse
// errors keyed by field; domain validation runs separately afterwards.
func parseActivityForm(r *http.Request) (domain.ActivityInput, map[string]string, map[string]string) {
	fields := make(map[string]string)
	if err := r.ParseForm(); err != nil {
		fields["form"] = "could not be parsed"
		return domain.ActivityInput{}, map[string]string{}, fields
	}

	form := map[string]string{
		"activity_type":   r.PostFormValue("activity_type"),
		"duration":        r.PostFormValue("duration"),
		"distance":        r.PostFormValue("distance"),
		"calories_burned": r.PostFormValue("calories_burned"),
		"date":            r.PostFormValue("date"),
		"notes":           r.PostFormValue("notes"),
	}

	input := domain.ActivityInput{
		ActivityType: domain.ActivityType(form["activity_type"]),
		Notes:        form["notes"],
	}

	if raw := strings.TrimSpace(form["duration"]); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil {
			fields["duration"] = "must be a whole number of minutes"
		} else {
			input.DurationMin = duration
		}
	}
	if raw := strings.TrimSpace(form["distance"]); raw != "" {
		distance, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields["distance"] = "must be a number of kilometers"
		} else {
			input.DistanceKM = &distance
		}
	}
	if raw := strings.TrimSpace(form["calories_burned"]); raw != "" {
		calories, err := strconv.Atoi(raw)
		if err != nil {
			fields["calories_burned"] = "must be a whole number"
		} else {
			input.CaloriesBurned = &calories
		}
	}
	if raw := strings.TrimSpace(form["date"]); raw != "" {
		date, err := time.Parse(formDateLayout, raw)
		if err != nil {
			fields["date"] = "must be a valid date and time"
		} else {
			input.Date = date.UTC()
		}
	}

	return input, form, fields
}

// activityToForm seeds the edit form with an existing record's values.
func activityToForm(activity domain.Activity) map[string]string {
	form := map[string]string{
		"activity_type": string(activity.ActivityType),
		"duration":      strconv.Itoa(activity.DurationMin),
		"date":          activity.Date.Format(formDateLayout),
		"notes":         activity.Notes,
	}
	if activity.DistanceKM != nil {
		form["distance"] = fmt.Sprintf("%g", *activity.DistanceKM)
	}
	if activity.CaloriesBurned != nil {
		form["calories_burned"] = strconv.Itoa(*activity.CaloriesBurned)
	}
	return form
}

// parseHistoryFilter reads the optional filter controls of the history page.
func parseHistoryFilter(r *http.Request) (domain.ListFilter, map[string]string) {
	var filter domain.ListFilter
	fields := make(map[string]string)

	if raw := r.URL.Query().Get("activity_type"); raw != "" {
		activityType := domain.ActivityType(raw)
		if !activityType.Known() {
			fields["activity_type"] = "is not a supported activity type"
		} else {
			filter.ActivityType = activityType
		}
	}
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		ts, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fields["start_date"] = "must be a YYYY-MM-DD date"
		} else {
			ts = ts.UTC()
			filter.Start = &ts
		}
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		ts, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fields["end_date"] = "must be a YYYY-MM-DD date"
		} else {
			ts = ts.UTC()
			filter.End = &ts
		}
	}

	return filter, fields
}
