package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	users []User
}

func (m *memRepo) Create(_ context.Context, user User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return ErrUsernameTaken
		}
	}
	m.users = append(m.users, user)
	return nil
}

func (m *memRepo) ByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memRepo) ByID(_ context.Context, userID string) (*User, error) {
	for _, u := range m.users {
		if u.ID == userID {
			copied := u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memRepo) Delete(_ context.Context, userID string) error {
	for i, u := range m.users {
		if u.ID == userID {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return ErrUserNotFound
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := &memRepo{}
	service := NewService(repo)

	user, err := service.Register(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice", user.Username)
	require.NotEmpty(t, user.PasswordHash)
	require.NotEqual(t, "correct horse battery", string(user.PasswordHash))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := &memRepo{}
	service := NewService(repo)

	_, err := service.Register(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	_, err = service.Register(context.Background(), "alice", "another password")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthenticate(t *testing.T) {
	repo := &memRepo{}
	service := NewService(repo)

	registered, err := service.Register(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	user, err := service.Authenticate(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := &memRepo{}
	service := NewService(repo)

	_, err := service.Register(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	_, err = service.Authenticate(context.Background(), "alice", "wrong password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestByIDAndDelete(t *testing.T) {
	repo := &memRepo{}
	service := NewService(repo)

	registered, err := service.Register(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	user, err := service.ByID(context.Background(), registered.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	require.NoError(t, service.Delete(context.Background(), registered.ID))
	_, err = service.ByID(context.Background(), registered.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	service := NewService(&memRepo{})

	// Unknown users report the same error as a wrong password so callers
	// cannot probe for registered usernames.
	_, err := service.Authenticate(context.Background(), "nobody", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
