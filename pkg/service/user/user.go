// Package user registers customers and answers profile lookups.
package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jeremi-ah/bankledger/pkg/domain/user"
	"github.com/jeremi-ah/bankledger/pkg/repository"
)

// Service manages customer registration and lookup.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// New creates a user service.
func New(users repository.UserRepository, logger *slog.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// Register creates a new customer with a hashed password. Duplicate
// usernames or emails surface as domain.ErrAlreadyExists from the
// repository.
func (s *Service) Register(ctx context.Context, username, email, password string) (*user.User, error) {
	log := s.logger.With("context", "Register", "username", username)

	u, err := user.NewUser(username, email, password)
	if err != nil {
		log.Warn("Register rejected", "error", err)
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		log.Warn("Register failed", "error", err)
		return nil, err
	}
	log.Info("Register successful", "userID", u.ID)
	return u, nil
}

// Get returns the customer by identifier.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.users.Get(ctx, id)
}
