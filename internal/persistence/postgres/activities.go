package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohamedamrelashry/fitness/internal/domain"
	"github.com/mohamedamrelashry/fitness/internal/observability"
)

// ActivityRepository provides Postgres-backed persistence for activities.
// Every statement carries the owning user_id, so ownership is enforced in
// SQL rather than trusted to the transport layer.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

const activityColumns = `activity_id, user_id, activity_type, duration_min, distance_km, calories_burned, activity_date, notes, created_at, updated_at`

// Create persists a new activity row.
func (r *ActivityRepository) Create(ctx context.Context, activity domain.Activity) error {
	const stmt = `INSERT INTO activities (` + activityColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	_, err := r.pool.Exec(ctx, stmt,
		activity.ID,
		activity.UserID,
		string(activity.ActivityType),
		activity.DurationMin,
		activity.DistanceKM,
		activity.CaloriesBurned,
		activity.Date,
		activity.Notes,
		activity.CreatedAt,
		activity.UpdatedAt,
	)
	if err != nil {
		return err
	}
	observability.RecordActivityPersisted(activity.UpdatedAt)
	return nil
}

// Get retrieves one activity owned by userID.
func (r *ActivityRepository) Get(ctx context.Context, userID, activityID string) (*domain.Activity, error) {
	const query = `SELECT ` + activityColumns + ` FROM activities
        WHERE user_id=$1 AND activity_id=$2`

	row := r.pool.QueryRow(ctx, query, userID, activityID)
	activity, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, err
	}
	return activity, nil
}

// Update replaces every user-settable field of an owned row in a single
// statement. Zero rows affected means the row is absent or owned by someone
// else; both surface as not found.
func (r *ActivityRepository) Update(ctx context.Context, activity domain.Activity) error {
	const stmt = `UPDATE activities
        SET activity_type=$3, duration_min=$4, distance_km=$5, calories_burned=$6, activity_date=$7, notes=$8, updated_at=$9
        WHERE user_id=$1 AND activity_id=$2`

	tag, err := r.pool.Exec(ctx, stmt,
		activity.UserID,
		activity.ID,
		string(activity.ActivityType),
		activity.DurationMin,
		activity.DistanceKM,
		activity.CaloriesBurned,
		activity.Date,
		activity.Notes,
		activity.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActivityNotFound
	}
	observability.RecordActivityPersisted(activity.UpdatedAt)
	return nil
}

// Delete removes one owned row.
func (r *ActivityRepository) Delete(ctx context.Context, userID, activityID string) error {
	const stmt = `DELETE FROM activities WHERE user_id=$1 AND activity_id=$2`

	tag, err := r.pool.Exec(ctx, stmt, userID, activityID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActivityNotFound
	}
	observability.RecordActivityDeleted()
	return nil
}

// List returns one page of owned rows matching the filter plus the total
// match count. Count and page run inside one transaction so the page
// boundaries are consistent with the total.
func (r *ActivityRepository) List(ctx context.Context, userID string, filter domain.ListFilter, order domain.Ordering, page domain.Page) ([]domain.Activity, int, error) {
	where, args := filterClause(userID, filter)

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	var total int
	countQuery := `SELECT count(*) FROM activities WHERE ` + where
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageArgs := append(args, page.Limit, page.Offset)
	pageQuery := fmt.Sprintf(`SELECT %s FROM activities WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		activityColumns, where, orderClause(order), len(args)+1, len(args)+2)

	items, err := queryActivities(ctx, tx, pageQuery, pageArgs...)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAll materializes every owned row matching the filter, for the metrics
// reduction. A single query reads a consistent snapshot.
func (r *ActivityRepository) ListAll(ctx context.Context, userID string, filter domain.ListFilter, order domain.Ordering) ([]domain.Activity, error) {
	where, args := filterClause(userID, filter)
	query := fmt.Sprintf(`SELECT %s FROM activities WHERE %s ORDER BY %s`,
		activityColumns, where, orderClause(order))

	return queryActivities(ctx, r.pool, query, args...)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func queryActivities(ctx context.Context, q querier, query string, args ...any) ([]domain.Activity, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Activity, 0)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *activity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var activity domain.Activity
	var activityType string
	err := row.Scan(
		&activity.ID,
		&activity.UserID,
		&activityType,
		&activity.DurationMin,
		&activity.DistanceKM,
		&activity.CaloriesBurned,
		&activity.Date,
		&activity.Notes,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	activity.ActivityType = domain.ActivityType(activityType)
	return &activity, nil
}

// filterClause builds the WHERE conditions for an owner-scoped listing. The
// user_id condition is always first and never optional.
func filterClause(userID string, filter domain.ListFilter) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if filter.ActivityType != "" {
		args = append(args, string(filter.ActivityType))
		conditions = append(conditions, fmt.Sprintf("activity_type = $%d", len(args)))
	}
	if filter.Start != nil {
		args = append(args, *filter.Start)
		conditions = append(conditions, fmt.Sprintf("activity_date >= $%d", len(args)))
	}
	if filter.End != nil {
		args = append(args, *filter.End)
		conditions = append(conditions, fmt.Sprintf("activity_date <= $%d", len(args)))
	}

	return strings.Join(conditions, " AND "), args
}

// orderColumns maps ordering keys to columns. Keys outside this map never
// reach SQL.
var orderColumns = map[domain.OrderKey]string{
	domain.OrderByDate:     "activity_date",
	domain.OrderByDuration: "duration_min",
	domain.OrderByCalories: "calories_burned",
	domain.OrderByDistance: "distance_km",
}

func orderClause(order domain.Ordering) string {
	column, ok := orderColumns[order.Key]
	if !ok {
		column = "activity_date"
		order.Desc = true
	}
	direction := "ASC"
	if order.Desc {
		direction = "DESC"
	}
	// activity_id tiebreak keeps repeated listings stable across equal keys.
	return fmt.Sprintf("%s %s, activity_id %s", column, direction, direction)
}
