package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohamedamrelashry/fitness/internal/users"
)

// UserRepository provides Postgres-backed persistence for user accounts.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `user_id, username, password_hash, created_at, updated_at`

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// Create persists a new user. A duplicate username reports ErrUsernameTaken.
func (r *UserRepository) Create(ctx context.Context, user users.User) error {
	const stmt = `INSERT INTO users (` + userColumns + `) VALUES ($1,$2,$3,$4,$5)`

	_, err := r.pool.Exec(ctx, stmt,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return users.ErrUsernameTaken
		}
		return err
	}
	return nil
}

// ByUsername fetches a user by their unique username.
func (r *UserRepository) ByUsername(ctx context.Context, username string) (*users.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return r.scanOne(ctx, query, username)
}

// ByID fetches a user by identifier.
func (r *UserRepository) ByID(ctx context.Context, userID string) (*users.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE user_id=$1`
	return r.scanOne(ctx, query, userID)
}

// Delete removes a user account. Owned activities go with it via the
// ON DELETE CASCADE constraint.
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	const stmt = `DELETE FROM users WHERE user_id=$1`

	tag, err := r.pool.Exec(ctx, stmt, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(ctx context.Context, query string, arg any) (*users.User, error) {
	row := r.pool.QueryRow(ctx, query, arg)

	var user users.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
