// Package user models the customers who own ledger accounts.
package user

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jeremi-ah/bankledger/pkg/utils"
)

var (
	// ErrUserNotFound is returned when a customer cannot be found in the repository.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserUnauthorized is returned when credentials do not match a known customer.
	ErrUserUnauthorized = errors.New("user unauthorized")
)

// User represents a registered customer.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created"`
	UpdatedAt      time.Time `json:"updated"`
}

// NewUser creates a User with a bcrypt-hashed password and current timestamps.
func NewUser(username, email, password string) (*User, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if !utils.IsEmail(email) {
		return nil, errors.New("email is not valid")
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// NewUserFromData hydrates a User from stored data.
func NewUserFromData(
	id uuid.UUID,
	username, email, hashedPassword string,
	created, updated time.Time,
) *User {
	return &User{
		ID:             id,
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      created,
		UpdatedAt:      updated,
	}
}
