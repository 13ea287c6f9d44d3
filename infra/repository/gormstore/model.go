package gormstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeremi-ah/bankledger/pkg/domain/account"
	"github.com/jeremi-ah/bankledger/pkg/domain/user"
	"github.com/jeremi-ah/bankledger/pkg/money"
)

// AccountModel is the accounts table record. Version drives the optimistic
// commit check in CompareAndSwap.
type AccountModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	HolderName string    `gorm:"type:varchar(255);not null"`
	Balance    int64     `gorm:"not null"`
	Currency   string    `gorm:"type:varchar(3);not null"`
	Version    int64     `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for the AccountModel.
func (AccountModel) TableName() string {
	return "accounts"
}

// EntryModel is the entries table record. The (account_id, sequence) pair is
// unique so a duplicate commit of the same version fails at the database.
type EntryModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_entries_account_seq"`
	Kind             string    `gorm:"type:varchar(16);not null"`
	Amount           int64     `gorm:"not null"`
	Currency         string    `gorm:"type:varchar(3);not null"`
	ResultingBalance int64     `gorm:"not null"`
	Sequence         int64     `gorm:"not null;uniqueIndex:idx_entries_account_seq"`
	CreatedAt        time.Time
}

// TableName specifies the table name for the EntryModel.
func (EntryModel) TableName() string {
	return "entries"
}

// UserModel is the users table record.
type UserModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	Username       string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	HashedPassword string    `gorm:"type:varchar(255);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for the UserModel.
func (UserModel) TableName() string {
	return "users"
}

func accountToModel(a *account.Account) AccountModel {
	return AccountModel{
		ID:         a.ID,
		OwnerID:    a.OwnerID,
		HolderName: a.HolderName,
		Balance:    a.Balance.Amount(),
		Currency:   a.Balance.Currency().String(),
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func modelToAccount(m *AccountModel) (*account.Account, error) {
	return account.New().
		WithID(m.ID).
		WithOwnerID(m.OwnerID).
		WithHolderName(m.HolderName).
		WithBalance(m.Balance).
		WithCurrency(money.Code(m.Currency)).
		WithVersion(m.Version).
		WithCreatedAt(m.CreatedAt).
		WithUpdatedAt(m.UpdatedAt).
		Build()
}

func entryToModel(e account.Entry) EntryModel {
	return EntryModel{
		ID:               e.ID,
		AccountID:        e.AccountID,
		Kind:             string(e.Kind),
		Amount:           e.Amount.Amount(),
		Currency:         e.Amount.Currency().String(),
		ResultingBalance: e.ResultingBalance.Amount(),
		Sequence:         e.Sequence,
		CreatedAt:        e.CreatedAt,
	}
}

func modelToEntry(m *EntryModel) (account.Entry, error) {
	code := money.Code(m.Currency)
	amount, err := money.New(m.Amount, code)
	if err != nil {
		return account.Entry{}, err
	}
	resulting, err := money.New(m.ResultingBalance, code)
	if err != nil {
		return account.Entry{}, err
	}
	return account.Entry{
		ID:               m.ID,
		AccountID:        m.AccountID,
		Kind:             account.EntryKind(m.Kind),
		Amount:           amount,
		ResultingBalance: resulting,
		Sequence:         m.Sequence,
		CreatedAt:        m.CreatedAt,
	}, nil
}

func userToModel(u *user.User) UserModel {
	return UserModel{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func modelToUser(m *UserModel) *user.User {
	return user.NewUserFromData(
		m.ID, m.Username, m.Email, m.HashedPassword, m.CreatedAt, m.UpdatedAt,
	)
}
