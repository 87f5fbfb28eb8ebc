package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/mohamedamrelashry/fitness/internal/domain"
)

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate ensures request correctness.
func (r RegisterRequest) Validate() map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(r.Username) == "" {
		fields["username"] = "is required"
	}
	if len(r.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	return fields
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse reports the authenticated identity; Token is set on login.
type AuthResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token,omitempty"`
}

// ActivityRequest is the payload for creating or fully updating an activity.
// A nil date means "unspecified" and defaults server-side.
type ActivityRequest struct {
	ActivityType   string     `json:"activity_type"`
	Duration       int        `json:"duration"`
	Distance       *float64   `json:"distance"`
	CaloriesBurned *int       `json:"calories_burned"`
	Date           *time.Time `json:"date"`
	Notes          string     `json:"notes"`
}

func (r ActivityRequest) toInput() domain.ActivityInput {
	in := domain.ActivityInput{
		ActivityType:   domain.ActivityType(r.ActivityType),
		DurationMin:    r.Duration,
		DistanceKM:     r.Distance,
		CaloriesBurned: r.CaloriesBurned,
		Notes:          r.Notes,
	}
	if r.Date != nil {
		in.Date = *r.Date
	}
	return in
}

// ActivityView exposes full details about an activity.
type ActivityView struct {
	ID             string    `json:"id"`
	User           string    `json:"user"`
	ActivityType   string    `json:"activity_type"`
	Duration       int       `json:"duration"`
	Distance       *float64  `json:"distance"`
	CaloriesBurned *int      `json:"calories_burned"`
	Date           time.Time `json:"date"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ListActivitiesResponse packages one page of list results.
type ListActivitiesResponse struct {
	Items         []ActivityView `json:"items"`
	Total         int            `json:"total"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

// DistributionEntry is the per-type slice of the metrics distribution.
type DistributionEntry struct {
	ActivityType  string  `json:"activity_type"`
	Count         int     `json:"count"`
	TotalDuration int     `json:"total_duration"`
	TotalDistance float64 `json:"total_distance"`
	TotalCalories int     `json:"total_calories"`
}

// MetricsResponse is the body of GET /api/activities/metrics.
type MetricsResponse struct {
	TotalDuration        int                 `json:"total_duration"`
	TotalDistance        float64             `json:"total_distance"`
	TotalCalories        int                 `json:"total_calories"`
	AvgDuration          float64             `json:"avg_duration"`
	AvgDistance          float64             `json:"avg_distance"`
	AvgCalories          float64             `json:"avg_calories"`
	ActivityDistribution []DistributionEntry `json:"activity_distribution"`
	Period               string              `json:"period"`
}

func toActivityView(activity domain.Activity, username string) ActivityView {
	return ActivityView{
		ID:             activity.ID,
		User:           username,
		ActivityType:   string(activity.ActivityType),
		Duration:       activity.DurationMin,
		Distance:       activity.DistanceKM,
		CaloriesBurned: activity.CaloriesBurned,
		Date:           activity.Date,
		Notes:          activity.Notes,
		CreatedAt:      activity.CreatedAt,
		UpdatedAt:      activity.UpdatedAt,
	}
}

func toMetricsResponse(metrics domain.MetricsResult) MetricsResponse {
	distribution := make([]DistributionEntry, 0, len(metrics.Distribution))
	for _, entry := range metrics.Distribution {
		distribution = append(distribution, DistributionEntry{
			ActivityType:  string(entry.ActivityType),
			Count:         entry.Count,
			TotalDuration: entry.TotalDuration,
			TotalDistance: entry.TotalDistance,
			TotalCalories: entry.TotalCalories,
		})
	}
	return MetricsResponse{
		TotalDuration:        metrics.TotalDuration,
		TotalDistance:        metrics.TotalDistance,
		TotalCalories:        metrics.TotalCalories,
		AvgDuration:          metrics.AvgDuration,
		AvgDistance:          metrics.AvgDistance,
		AvgCalories:          metrics.AvgCalories,
		ActivityDistribution: distribution,
		Period:               string(metrics.Period),
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeValidationError(w http.ResponseWriter, fields map[string]string) {
	payload := map[string]interface{}{
		"type":   "validation_failed",
		"detail": "one or more fields are invalid",
		"fields": fields,
	}
	writeJSON(w, http.StatusBadRequest, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
