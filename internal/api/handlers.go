// Package api exposes the JSON HTTP handlers for the fitness tracker.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mohamedamrelashry/fitness/internal/auth"
	"github.com/mohamedamrelashry/fitness/internal/domain"
	"github.com/mohamedamrelashry/fitness/internal/observability"
	"github.com/mohamedamrelashry/fitness/internal/persistence"
	"github.com/mohamedamrelashry/fitness/internal/users"
)

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	activities *domain.Service
	accounts   *users.Service
	authCfg    auth.Config
}

// NewHandler builds a Handler.
func NewHandler(activities *domain.Service, accounts *users.Service, authCfg auth.Config) *Handler {
	return &Handler{activities: activities, accounts: accounts, authCfg: authCfg}
}

// RegisterRoutes wires endpoints to the mux. The exact patterns for history
// and metrics take precedence over the by-ID subtree.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", h.register)
	mux.HandleFunc("/api/auth/login", h.login)
	mux.HandleFunc("/api/auth/logout", h.logout)
	mux.HandleFunc("/api/activities", h.activityCollection)
	mux.HandleFunc("/api/activities/", h.activityByID)
	mux.HandleFunc("/api/activities/history", h.activityHistory)
	mux.HandleFunc("/api/activities/metrics", h.activityMetrics)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			writeValidationError(w, map[string]string{"username": "already taken"})
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{UserID: user.ID, Username: user.Username})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
			return
		}
		h.serverError(w, r, err)
		return
	}

	token, err := auth.NewToken(h.authCfg, user.ID, user.Username)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, token, h.authCfg.Expiry)
	writeJSON(w, http.StatusOK, AuthResponse{UserID: user.ID, Username: user.Username, Token: token})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	auth.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"detail": "logged out"})
}

func (h *Handler) activityCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createActivity(w, r)
	case http.MethodGet:
		h.listActivities(w, r, domain.ListFilter{})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) activityByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/activities/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getActivity(w, r, id)
	case http.MethodPut:
		h.updateActivity(w, r, id)
	case http.MethodDelete:
		h.deleteActivity(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	activity, err := h.activities.CreateActivity(r.Context(), claims.UserID, req.toInput())
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeValidationError(w, verr.Fields)
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toActivityView(*activity, claims.Username))
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	activity, err := h.activities.GetActivity(r.Context(), claims.UserID, id)
	if err != nil {
		if errors.Is(err, domain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity not found")
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toActivityView(*activity, claims.Username))
}

func (h *Handler) updateActivity(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	activity, err := h.activities.UpdateActivity(r.Context(), claims.UserID, id, req.toInput())
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			writeValidationError(w, verr.Fields)
		case errors.Is(err, domain.ErrActivityNotFound):
			writeError(w, http.StatusNotFound, "not_found", "activity not found")
		default:
			h.serverError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, toActivityView(*activity, claims.Username))
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	if err := h.activities.DeleteActivity(r.Context(), claims.UserID, id); err != nil {
		if errors.Is(err, domain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity not found")
			return
		}
		h.serverError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) activityHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	filter, fields := filterFromQuery(r)
	if len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}
	h.listActivities(w, r, filter)
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request, filter domain.ListFilter) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	offset, err := persistence.DecodePageToken(r.URL.Query().Get("page_token"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid page token")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	order := domain.ParseOrdering(r.URL.Query().Get("ordering"))

	result, err := h.activities.ListActivities(r.Context(), claims.UserID, filter, order, domain.Page{Offset: offset, Limit: limit})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	items := make([]ActivityView, 0, len(result.Items))
	for _, activity := range result.Items {
		items = append(items, toActivityView(activity, claims.Username))
	}

	resp := ListActivitiesResponse{Items: items, Total: result.Total}
	if result.NextOffset != nil {
		resp.NextPageToken = persistence.EncodePageToken(*result.NextOffset)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) activityMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	period, ok := domain.ParsePeriod(r.URL.Query().Get("period"))
	if !ok {
		writeValidationError(w, map[string]string{"period": "must be one of week, month, all"})
		return
	}

	filter, fields := filterFromQuery(r)
	if len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	metrics, err := h.activities.ComputeMetrics(r.Context(), claims.UserID, period, filter)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	observability.RecordMetricsComputed(string(period))

	writeJSON(w, http.StatusOK, toMetricsResponse(metrics))
}

// filterFromQuery parses the optional activity_type/start_date/end_date
// query parameters shared by history and metrics.
func filterFromQuery(r *http.Request) (domain.ListFilter, map[string]string) {
	var filter domain.ListFilter
	fields := make(map[string]string)

	if raw := r.URL.Query().Get("activity_type"); raw != "" {
		activityType := domain.ActivityType(raw)
		if !activityType.Known() {
			fields["activity_type"] = "must be one of the supported activity types"
		} else {
			filter.ActivityType = activityType
		}
	}
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		ts, err := parseTimestamp(raw)
		if err != nil {
			fields["start_date"] = "must be an RFC 3339 timestamp or YYYY-MM-DD date"
		} else {
			filter.Start = &ts
		}
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		ts, err := parseTimestamp(raw)
		if err != nil {
			fields["end_date"] = "must be an RFC 3339 timestamp or YYYY-MM-DD date"
		} else {
			filter.End = &ts
		}
	}

	return filter, fields
}

func parseTimestamp(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "server_error", "internal error")
}
