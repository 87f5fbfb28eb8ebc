package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Repository captures persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, user User) error
	ByUsername(ctx context.Context, username string) (*User, error)
	ByID(ctx context.Context, userID string) (*User, error)
	Delete(ctx context.Context, userID string) error
}

// Service handles registration and credential verification.
type Service struct {
	repo Repository
	cost int
}

// NewService constructs a Service using the default bcrypt cost.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords both report ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ByID fetches an account by identifier.
func (s *Service) ByID(ctx context.Context, userID string) (*User, error) {
	return s.repo.ByID(ctx, userID)
}

// Delete removes an account and, through the store's cascade, every
// activity it owns.
func (s *Service) Delete(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}
