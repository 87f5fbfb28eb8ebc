package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory ActivityRepository used by the service tests.
type memRepo struct {
	activities []Activity

	lastFilter ListFilter
	lastOrder  Ordering
	lastPage   Page
}

func (m *memRepo) Create(_ context.Context, activity Activity) error {
	m.activities = append(m.activities, activity)
	return nil
}

func (m *memRepo) Get(_ context.Context, userID, activityID string) (*Activity, error) {
	for _, act := range m.activities {
		if act.UserID == userID && act.ID == activityID {
			copied := act
			return &copied, nil
		}
	}
	return nil, ErrActivityNotFound
}

func (m *memRepo) matches(userID string, filter ListFilter) []Activity {
	out := make([]Activity, 0)
	for _, act := range m.activities {
		if act.UserID != userID {
			continue
		}
		if filter.ActivityType != "" && act.ActivityType != filter.ActivityType {
			continue
		}
		if filter.Start != nil && act.Date.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && act.Date.After(*filter.End) {
			continue
		}
		out = append(out, act)
	}
	return out
}

func (m *memRepo) List(_ context.Context, userID string, filter ListFilter, order Ordering, page Page) ([]Activity, int, error) {
	m.lastFilter, m.lastOrder, m.lastPage = filter, order, page
	matched := m.matches(userID, filter)
	total := len(matched)
	if page.Offset >= total {
		return nil, total, nil
	}
	end := page.Offset + page.Limit
	if end > total {
		end = total
	}
	return matched[page.Offset:end], total, nil
}

func (m *memRepo) ListAll(_ context.Context, userID string, filter ListFilter, order Ordering) ([]Activity, error) {
	m.lastFilter, m.lastOrder = filter, order
	return m.matches(userID, filter), nil
}

func (m *memRepo) Update(_ context.Context, activity Activity) error {
	for i, act := range m.activities {
		if act.UserID == activity.UserID && act.ID == activity.ID {
			activity.CreatedAt = act.CreatedAt
			m.activities[i] = activity
			return nil
		}
	}
	return ErrActivityNotFound
}

func (m *memRepo) Delete(_ context.Context, userID, activityID string) error {
	for i, act := range m.activities {
		if act.UserID == userID && act.ID == activityID {
			m.activities = append(m.activities[:i], m.activities[i+1:]...)
			return nil
		}
	}
	return ErrActivityNotFound
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateActivityAssignsDefaults(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	repo := &memRepo{}
	service := NewService(repo, WithClock(fixedClock(now)))

	created, err := service.CreateActivity(context.Background(), "user-1", ActivityInput{
		ActivityType: TypeRunning,
		DurationMin:  30,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "user-1", created.UserID)
	require.Equal(t, now, created.Date)
	require.Equal(t, now, created.CreatedAt)
	require.Equal(t, now, created.UpdatedAt)
}

func TestCreateActivityRejectsInvalidInput(t *testing.T) {
	repo := &memRepo{}
	service := NewService(repo)

	_, err := service.CreateActivity(context.Background(), "user-1", ActivityInput{
		ActivityType: TypeRunning,
		DurationMin:  0,
	})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "duration")
	require.Empty(t, repo.activities, "failing validation must never reach the store")
}

func TestUpdateActivityNotOwned(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	repo := &memRepo{}
	service := NewService(repo, WithClock(fixedClock(now)))

	created, err := service.CreateActivity(context.Background(), "user-1", ActivityInput{
		ActivityType: TypeRunning, DurationMin: 30,
	})
	require.NoError(t, err)

	_, err = service.UpdateActivity(context.Background(), "user-2", created.ID, ActivityInput{
		ActivityType: TypeCycling, DurationMin: 40,
	})
	require.ErrorIs(t, err, ErrActivityNotFound)

	unchanged, err := service.GetActivity(context.Background(), "user-1", created.ID)
	require.NoError(t, err)
	require.Equal(t, TypeRunning, unchanged.ActivityType)
}

func TestDeleteActivityNotOwned(t *testing.T) {
	repo := &memRepo{}
	service := NewService(repo)

	created, err := service.CreateActivity(context.Background(), "user-1", ActivityInput{
		ActivityType: TypeRunning, DurationMin: 30,
	})
	require.NoError(t, err)

	err = service.DeleteActivity(context.Background(), "user-2", created.ID)
	require.ErrorIs(t, err, ErrActivityNotFound)
	require.Len(t, repo.activities, 1, "store must be unchanged")
}

func TestListActivitiesPageDefaults(t *testing.T) {
	repo := &memRepo{}
	service := NewService(repo, WithPageSize(2))

	for i := 0; i < 5; i++ {
		_, err := service.CreateActivity(context.Background(), "user-1", ActivityInput{
			ActivityType: TypeWalking, DurationMin: 10 + i,
		})
		require.NoError(t, err)
	}

	result, err := service.ListActivities(context.Background(), "user-1", ListFilter{}, DefaultOrdering(), Page{})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	require.Equal(t, 5, result.Total)
	require.NotNil(t, result.NextOffset)
	require.Equal(t, 2, *result.NextOffset)

	last, err := service.ListActivities(context.Background(), "user-1", ListFilter{}, DefaultOrdering(), Page{Offset: 4})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	require.Nil(t, last.NextOffset)
}

func TestListActivitiesClampsPageSize(t *testing.T) {
	repo := &memRepo{}
	service := NewService(repo)

	_, err := service.ListActivities(context.Background(), "user-1", ListFilter{}, DefaultOrdering(), Page{Limit: 10000})
	require.NoError(t, err)
	require.Equal(t, MaxPageSize, repo.lastPage.Limit)
}

func TestComputeMetricsAppliesPeriodWindow(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	repo := &memRepo{}
	service := NewService(repo, WithClock(fixedClock(now)))

	recent := ActivityInput{ActivityType: TypeRunning, DurationMin: 30, Date: now.AddDate(0, 0, -2)}
	stale := ActivityInput{ActivityType: TypeCycling, DurationMin: 60, Date: now.AddDate(0, 0, -20)}
	for _, in := range []ActivityInput{recent, stale} {
		_, err := service.CreateActivity(context.Background(), "user-1", in)
		require.NoError(t, err)
	}

	weekly, err := service.ComputeMetrics(context.Background(), "user-1", PeriodWeek, ListFilter{})
	require.NoError(t, err)
	require.Equal(t, 30, weekly.TotalDuration)
	require.Equal(t, PeriodWeek, weekly.Period)

	monthly, err := service.ComputeMetrics(context.Background(), "user-1", PeriodMonth, ListFilter{})
	require.NoError(t, err)
	require.Equal(t, 90, monthly.TotalDuration)

	all, err := service.ComputeMetrics(context.Background(), "user-1", PeriodAll, ListFilter{})
	require.NoError(t, err)
	require.Equal(t, 90, all.TotalDuration)
	require.Nil(t, repo.lastFilter.Start, "all period must not add a lower bound")
}

func TestComputeMetricsComposesExplicitStart(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	repo := &memRepo{}
	service := NewService(repo, WithClock(fixedClock(now)))

	// Explicit start older than the period window: the window wins.
	explicit := now.AddDate(0, 0, -60)
	_, err := service.ComputeMetrics(context.Background(), "user-1", PeriodWeek, ListFilter{Start: &explicit})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.Start)
	require.Equal(t, now.AddDate(0, 0, -7), *repo.lastFilter.Start)

	// Explicit start inside the window: the explicit bound wins.
	inside := now.AddDate(0, 0, -2)
	_, err = service.ComputeMetrics(context.Background(), "user-1", PeriodWeek, ListFilter{Start: &inside})
	require.NoError(t, err)
	require.Equal(t, inside, *repo.lastFilter.Start)
}

func TestComputeMetricsEmptySet(t *testing.T) {
	repo := &memRepo{}
	service := NewService(repo)

	result, err := service.ComputeMetrics(context.Background(), "user-1", PeriodAll, ListFilter{})
	require.NoError(t, err)
	require.Equal(t, 0, result.TotalDuration)
	require.Equal(t, 0.0, result.AvgDuration)
	require.Empty(t, result.Distribution)
}
