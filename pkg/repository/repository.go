// Package repository defines the storage interfaces the ledger core
// consumes. Implementations live under infra/repository.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jeremi-ah/bankledger/pkg/domain/account"
	"github.com/jeremi-ah/bankledger/pkg/domain/user"
)

// ErrVersionConflict is returned by CompareAndSwap when the stored version
// no longer matches the expected version. It never crosses the ledger
// service boundary: the service's retry loop either recovers from it or
// converts it to domain.ErrContention.
var ErrVersionConflict = errors.New("account version conflict")

// Mutation computes the successor state of an account from the freshly read
// current state. It must return the successor with Version = current.Version+1
// together with the log entry recording the change (Entry.Sequence equal to
// the successor's Version). Mutations must be pure: the store may call one
// more than once across conflict retries.
type Mutation func(current account.Account) (next account.Account, entry account.Entry, err error)

// AccountStore is durable keyed storage for accounts and their append-only
// entry logs. CompareAndSwap is the only mutation path after Create.
type AccountStore interface {
	// Get returns the current account state, or account.ErrAccountNotFound.
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// Create stores a brand-new account and its opening entry, or fails
	// with domain.ErrAlreadyExists when the identifier is taken. The failed
	// attempt leaves the stored state untouched.
	Create(ctx context.Context, a *account.Account, opening account.Entry) error

	// CompareAndSwap atomically replaces the account keyed by id: it reads
	// the current record, fails with ErrVersionConflict unless the stored
	// version equals expectedVersion, applies mutate, and commits the
	// successor state plus its log entry as one indivisible step relative
	// to any other CompareAndSwap on the same id. Errors returned by mutate
	// abort the swap unchanged and are passed through verbatim.
	//
	// Once invoked, the commit runs to completion or definitive conflict;
	// ctx cancellation is honored only before the critical section begins.
	CompareAndSwap(ctx context.Context, id uuid.UUID, expectedVersion int64, mutate Mutation) (*account.Account, error)

	// Entries returns the account's log in sequence order, or
	// account.ErrAccountNotFound for an unknown account.
	Entries(ctx context.Context, id uuid.UUID) ([]account.Entry, error)
}

// UserRepository is keyed storage for registered customers.
type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
}
