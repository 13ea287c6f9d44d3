package account

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jeremi-ah/bankledger/pkg/money"
)

var (
	// ErrAmountMustBePositive is returned when a deposit or withdrawal amount is not positive.
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrNegativeInitialBalance is returned when an account would be opened with a negative balance.
	ErrNegativeInitialBalance = errors.New("initial balance must not be negative")

	// ErrInsufficientBalance is returned when a withdrawal would drive the balance negative.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrNotOwner is returned when a customer acts on an account they do not own.
	ErrNotOwner = errors.New("not owner")

	// ErrCurrencyMismatch is returned when an operation's currency differs from the account's.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Account is the ledger's aggregate root for a single balance.
//
// Invariants:
//   - Balance is never negative at any committed state.
//   - Version increases by exactly one per committed mutation; the first
//     committed state (creation) carries Version 1.
//   - Only the owning customer may mutate or read the account.
type Account struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	HolderName string
	Balance    money.Money
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Builder constructs Account values, applying defaults and validating
// invariants at Build time.
type Builder struct {
	id         uuid.UUID
	ownerID    uuid.UUID
	holderName string
	balance    int64
	currency   money.Code
	version    int64
	createdAt  time.Time
	updatedAt  time.Time
}

// New returns a Builder with a fresh identifier and the default currency.
func New() *Builder {
	now := time.Now().UTC()
	return &Builder{
		id:        uuid.New(),
		currency:  money.DefaultCurrency,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}
}

// WithID overrides the generated identifier. Used for explicit identifiers
// and for hydrating stored records.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithOwnerID sets the owning customer. Mandatory.
func (b *Builder) WithOwnerID(ownerID uuid.UUID) *Builder {
	b.ownerID = ownerID
	return b
}

// WithHolderName sets the account holder's display name. Mandatory.
func (b *Builder) WithHolderName(name string) *Builder {
	b.holderName = name
	return b
}

// WithBalance sets the opening balance in minor units.
func (b *Builder) WithBalance(balance int64) *Builder {
	b.balance = balance
	return b
}

// WithCurrency sets the account currency. Defaults to money.DefaultCurrency.
func (b *Builder) WithCurrency(code money.Code) *Builder {
	b.currency = code
	return b
}

// WithVersion sets the record version. For hydration only.
func (b *Builder) WithVersion(v int64) *Builder {
	b.version = v
	return b
}

// WithCreatedAt sets the creation timestamp. For hydration only.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp. For hydration only.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates all invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if b.ownerID == uuid.Nil {
		return nil, errors.New("ownerID is required")
	}
	if b.holderName == "" {
		return nil, errors.New("holder name is required")
	}
	if b.balance < 0 {
		return nil, ErrNegativeInitialBalance
	}
	bal, err := money.New(b.balance, b.currency)
	if err != nil {
		return nil, err
	}
	return &Account{
		ID:         b.id,
		OwnerID:    b.ownerID,
		HolderName: b.holderName,
		Balance:    bal,
		Version:    b.version,
		CreatedAt:  b.createdAt,
		UpdatedAt:  b.updatedAt,
	}, nil
}

// ValidateOwner checks that customerID owns the account.
func (a *Account) ValidateOwner(customerID uuid.UUID) error {
	if a.OwnerID != customerID {
		return ErrNotOwner
	}
	return nil
}

func validateAmount(a *Account, amount money.Money) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	if !a.Balance.IsSameCurrency(amount) {
		return ErrCurrencyMismatch
	}
	return nil
}

// Deposited returns a copy of the account with amount added to the balance.
// The copy carries Version+1; the caller commits it through the store's
// compare-and-swap so that a concurrent writer cannot make the addition a
// lost update.
func (a *Account) Deposited(amount money.Money) (Account, error) {
	if err := validateAmount(a, amount); err != nil {
		return Account{}, err
	}
	newBalance, err := a.Balance.Add(amount)
	if err != nil {
		return Account{}, err
	}
	next := *a
	next.Balance = newBalance
	next.Version = a.Version + 1
	next.UpdatedAt = time.Now().UTC()
	return next, nil
}

// Withdrawn returns a copy of the account with amount removed from the
// balance. The sufficiency check runs against this snapshot's balance; the
// caller must re-invoke it on a fresh read after any version conflict so the
// check and the commit always use the same snapshot.
func (a *Account) Withdrawn(amount money.Money) (Account, error) {
	if err := validateAmount(a, amount); err != nil {
		return Account{}, err
	}
	short, err := a.Balance.LessThan(amount)
	if err != nil {
		return Account{}, err
	}
	if short {
		return Account{}, ErrInsufficientBalance
	}
	newBalance, err := a.Balance.Subtract(amount)
	if err != nil {
		return Account{}, err
	}
	next := *a
	next.Balance = newBalance
	next.Version = a.Version + 1
	next.UpdatedAt = time.Now().UTC()
	return next, nil
}
