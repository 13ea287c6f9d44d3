package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeremi-ah/bankledger/pkg/money"
)

// EntryKind labels the operation that produced a ledger entry.
type EntryKind string

const (
	// EntryCreate records the opening of an account.
	EntryCreate EntryKind = "create"
	// EntryDeposit records funds added to an account.
	EntryDeposit EntryKind = "deposit"
	// EntryWithdraw records funds removed from an account.
	EntryWithdraw EntryKind = "withdraw"
)

// Entry is one record of the per-account append-only audit log. Entries are
// immutable once committed.
//
// Sequence numbers per account are strictly increasing with no gaps and
// equal the account Version written by the same commit, so the log is a
// total order consistent with commit order.
type Entry struct {
	ID               uuid.UUID
	AccountID        uuid.UUID
	Kind             EntryKind
	Amount           money.Money
	ResultingBalance money.Money
	Sequence         int64
	CreatedAt        time.Time
}

// NewEntry builds the log entry for a committed account state. The entry's
// sequence mirrors the committed version.
func NewEntry(a *Account, kind EntryKind, amount money.Money) Entry {
	return Entry{
		ID:               uuid.New(),
		AccountID:        a.ID,
		Kind:             kind,
		Amount:           amount,
		ResultingBalance: a.Balance,
		Sequence:         a.Version,
		CreatedAt:        time.Now().UTC(),
	}
}
