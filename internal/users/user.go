// Package users manages user accounts and credential checks.
package users

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken indicates a registration collided with an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords,
	// so a login failure never reveals which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is an account that owns activities. Deleting a user cascades to
// every activity they logged.
type User struct {
	ID           string
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
