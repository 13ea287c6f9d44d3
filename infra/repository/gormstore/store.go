// Package gormstore provides PostgreSQL-backed repositories via GORM.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jeremi-ah/bankledger/pkg/domain"
	"github.com/jeremi-ah/bankledger/pkg/domain/account"
	"github.com/jeremi-ah/bankledger/pkg/repository"
)

// AccountStore persists accounts and their entry logs in PostgreSQL.
// CompareAndSwap relies on a guarded UPDATE (id + version in the WHERE
// clause) inside one transaction, so the account row and its log entry
// commit or roll back together.
type AccountStore struct {
	db *gorm.DB
}

// NewAccountStore creates an account store on the given connection.
func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

// Migrate creates or updates the accounts and entries tables.
func (s *AccountStore) Migrate() error {
	return s.db.AutoMigrate(&AccountModel{}, &EntryModel{})
}

// Get returns the current account state.
func (s *AccountStore) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m AccountModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return modelToAccount(&m)
}

// Create stores a new account and its opening entry in one transaction.
func (s *AccountStore) Create(ctx context.Context, a *account.Account, opening account.Entry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acct := accountToModel(a)
		if err := tx.Create(&acct).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("account %s: %w", a.ID, domain.ErrAlreadyExists)
			}
			return err
		}
		entry := entryToModel(opening)
		return tx.Create(&entry).Error
	})
}

// CompareAndSwap commits the mutation and its log entry atomically. The
// UPDATE is guarded by the expected version so a row changed since the read
// affects zero rows, which surfaces as ErrVersionConflict.
func (s *AccountStore) CompareAndSwap(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int64,
	mutate repository.Mutation,
) (*account.Account, error) {
	var committed *account.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m AccountModel
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return account.ErrAccountNotFound
			}
			return err
		}
		if m.Version != expectedVersion {
			return fmt.Errorf(
				"account %s: expected version %d, stored %d: %w",
				id, expectedVersion, m.Version, repository.ErrVersionConflict,
			)
		}

		current, err := modelToAccount(&m)
		if err != nil {
			return err
		}
		next, entry, err := mutate(*current)
		if err != nil {
			return err
		}

		res := tx.Model(&AccountModel{}).
			Where("id = ? AND version = ?", id, expectedVersion).
			Updates(map[string]any{
				"balance":    next.Balance.Amount(),
				"version":    next.Version,
				"updated_at": next.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("account %s: lost the race at version %d: %w",
				id, expectedVersion, repository.ErrVersionConflict)
		}

		em := entryToModel(entry)
		if err := tx.Create(&em).Error; err != nil {
			return err
		}
		committed = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// Entries returns the account's log ordered by sequence.
func (s *AccountStore) Entries(ctx context.Context, id uuid.UUID) ([]account.Entry, error) {
	var exists int64
	if err := s.db.WithContext(ctx).
		Model(&AccountModel{}).
		Where("id = ?", id).
		Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, account.ErrAccountNotFound
	}

	var models []EntryModel
	if err := s.db.WithContext(ctx).
		Where("account_id = ?", id).
		Order("sequence ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]account.Entry, 0, len(models))
	for i := range models {
		e, err := modelToEntry(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

var _ repository.AccountStore = (*AccountStore)(nil)
