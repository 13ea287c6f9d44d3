package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jeremi-ah/bankledger/pkg/domain"
	"github.com/jeremi-ah/bankledger/pkg/domain/user"
	"github.com/jeremi-ah/bankledger/pkg/repository"
)

// UserRepository keeps registered customers in process memory.
type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]user.User
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]user.User)}
}

// Get returns the user by identifier.
func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

// GetByUsername returns the user with the given username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

// GetByEmail returns the user with the given email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

// Create stores a new user, rejecting duplicate usernames and emails.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return fmt.Errorf("user %s: %w", u.Username, domain.ErrAlreadyExists)
		}
	}
	r.users[u.ID] = *u
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
