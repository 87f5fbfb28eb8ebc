// Package domain defines the business logic for the fitness tracker.
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultPageSize bounds listings when the caller does not ask for a size.
const DefaultPageSize = 10

// MaxPageSize caps the page size a caller may request.
const MaxPageSize = 100

// ActivityRepository captures persistence operations. Every method scopes to
// the owning user; an update or delete that matches no owned row reports
// ErrActivityNotFound.
type ActivityRepository interface {
	Create(ctx context.Context, activity Activity) error
	Get(ctx context.Context, userID, activityID string) (*Activity, error)
	List(ctx context.Context, userID string, filter ListFilter, order Ordering, page Page) ([]Activity, int, error)
	ListAll(ctx context.Context, userID string, filter ListFilter, order Ordering) ([]Activity, error)
	Update(ctx context.Context, activity Activity) error
	Delete(ctx context.Context, userID, activityID string) error
}

// Service orchestrates activity workflows.
type Service struct {
	repo     ActivityRepository
	now      func() time.Time
	pageSize int
}

// Option customises Service construction.
type Option func(*Service)

// WithClock overrides the wall clock, used by tests and anywhere the period
// reference time must be pinned.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPageSize sets the default page size for listings.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// NewService constructs a Service.
func NewService(repo ActivityRepository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		now:      func() time.Time { return time.Now().UTC() },
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateActivity validates the input and persists a new record owned by
// userID. A zero date defaults to the creation time.
func (s *Service) CreateActivity(ctx context.Context, userID string, in ActivityInput) (*Activity, error) {
	if verr := in.Validate(); verr != nil {
		return nil, verr
	}

	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	activity := Activity{
		ID:             uuid.NewString(),
		UserID:         userID,
		ActivityType:   in.ActivityType,
		DurationMin:    in.DurationMin,
		DistanceKM:     in.DistanceKM,
		CaloriesBurned: in.CaloriesBurned,
		Date:           date.UTC(),
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// GetActivity fetches one owned record by ID.
func (s *Service) GetActivity(ctx context.Context, userID, activityID string) (*Activity, error) {
	return s.repo.Get(ctx, userID, activityID)
}

// UpdateActivity replaces every user-settable field of an owned record.
// Validation runs before the write and the write is a single full-row
// statement, so a record is never left partially updated.
func (s *Service) UpdateActivity(ctx context.Context, userID, activityID string, in ActivityInput) (*Activity, error) {
	if verr := in.Validate(); verr != nil {
		return nil, verr
	}

	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	activity := Activity{
		ID:             activityID,
		UserID:         userID,
		ActivityType:   in.ActivityType,
		DurationMin:    in.DurationMin,
		DistanceKM:     in.DistanceKM,
		CaloriesBurned: in.CaloriesBurned,
		Date:           date.UTC(),
		Notes:          in.Notes,
		UpdatedAt:      now,
	}

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, activityID)
}

// DeleteActivity removes one owned record.
func (s *Service) DeleteActivity(ctx context.Context, userID, activityID string) error {
	return s.repo.Delete(ctx, userID, activityID)
}

// ListActivities returns one page of owned records matching the filter.
// Limit zero means the configured default; requests above MaxPageSize are
// clamped.
func (s *Service) ListActivities(ctx context.Context, userID string, filter ListFilter, order Ordering, page Page) (ListResult, error) {
	if page.Limit <= 0 {
		page.Limit = s.pageSize
	}
	if page.Limit > MaxPageSize {
		page.Limit = MaxPageSize
	}
	if page.Offset < 0 {
		page.Offset = 0
	}

	items, total, err := s.repo.List(ctx, userID, filter, order, page)
	if err != nil {
		return ListResult{}, err
	}

	result := ListResult{Items: items, Total: total}
	if next := page.Offset + len(items); next < total {
		result.NextOffset = &next
	}
	return result, nil
}

// ListAllActivities returns every owned record matching the filter in the
// default order, for callers that render running totals over the whole set.
func (s *Service) ListAllActivities(ctx context.Context, userID string, filter ListFilter) ([]Activity, error) {
	return s.repo.ListAll(ctx, userID, filter, DefaultOrdering())
}

// ComputeMetrics materializes the owned records matching the filter within
// the period window and reduces them to totals, averages and the per-type
// distribution. The period bound composes with an explicit start filter by
// taking the later of the two.
func (s *Service) ComputeMetrics(ctx context.Context, userID string, period Period, filter ListFilter) (MetricsResult, error) {
	if start, ok := period.Start(s.now()); ok {
		if filter.Start == nil || start.After(*filter.Start) {
			filter.Start = &start
		}
	}

	activities, err := s.repo.ListAll(ctx, userID, filter, DefaultOrdering())
	if err != nil {
		return MetricsResult{}, err
	}
	return Reduce(activities, period), nil
}
