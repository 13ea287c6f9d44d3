// Package events defines the domain events the ledger emits after commits.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every domain event.
type Event interface {
	// Type returns the event's registered name.
	Type() string
}

// TransactionCommitted is emitted exactly once per committed ledger
// mutation, after the store has accepted the new account state and its log
// entry. Consumers must treat it as a notification, not as the source of
// truth; the entry log is authoritative.
type TransactionCommitted struct {
	EventID          uuid.UUID `json:"event_id"`
	AccountID        uuid.UUID `json:"account_id"`
	OwnerID          uuid.UUID `json:"owner_id"`
	Kind             string    `json:"kind"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
	ResultingBalance int64     `json:"resulting_balance"`
	Sequence         int64     `json:"sequence"`
	CommittedAt      time.Time `json:"committed_at"`
}

// Type implements Event.
func (TransactionCommitted) Type() string { return "TransactionCommitted" }
