package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jeremi-ah/bankledger/pkg/domain"
	"github.com/jeremi-ah/bankledger/pkg/domain/user"
	"github.com/jeremi-ah/bankledger/pkg/repository"
)

// UserRepository persists registered customers in PostgreSQL.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository on the given connection.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Migrate creates or updates the users table.
func (r *UserRepository) Migrate() error {
	return r.db.AutoMigrate(&UserModel{})
}

func (r *UserRepository) getBy(ctx context.Context, query string, arg any) (*user.User, error) {
	var m UserModel
	err := r.db.WithContext(ctx).First(&m, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return modelToUser(&m), nil
}

// Get returns the user by identifier.
func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

// GetByUsername returns the user with the given username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.getBy(ctx, "username = ?", username)
}

// GetByEmail returns the user with the given email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, "email = ?", email)
}

// Create stores a new user. Duplicate usernames or emails hit the unique
// indexes and map to domain.ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	m := userToModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %s: %w", u.Username, domain.ErrAlreadyExists)
		}
		return err
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
