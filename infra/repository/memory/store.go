// Package memory provides in-memory repository implementations for tests
// and single-process deployments.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jeremi-ah/bankledger/pkg/domain"
	"github.com/jeremi-ah/bankledger/pkg/domain/account"
	"github.com/jeremi-ah/bankledger/pkg/repository"
)

// AccountStore keeps accounts and their entry logs in process memory.
// Each account has its own lock so contention on one account never blocks
// operations on another.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]account.Account
	entries  map[uuid.UUID][]account.Entry
	locks    map[uuid.UUID]*sync.Mutex
}

// NewAccountStore creates an empty in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[uuid.UUID]account.Account),
		entries:  make(map[uuid.UUID][]account.Entry),
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// accountLock returns the per-account mutex, creating it on first use.
func (s *AccountStore) accountLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Get returns a copy of the current account state.
func (s *AccountStore) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return &a, nil
}

// Create stores a new account together with its opening entry.
func (s *AccountStore) Create(ctx context.Context, a *account.Account, opening account.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.ID]; ok {
		return fmt.Errorf("account %s: %w", a.ID, domain.ErrAlreadyExists)
	}
	s.accounts[a.ID] = *a
	s.entries[a.ID] = append(s.entries[a.ID], opening)
	return nil
}

// CompareAndSwap commits a mutation and its log entry atomically, guarded by
// the account's lock and the expected version.
func (s *AccountStore) CompareAndSwap(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int64,
	mutate repository.Mutation,
) (*account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock := s.accountLock(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	current, ok := s.accounts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	if current.Version != expectedVersion {
		return nil, fmt.Errorf(
			"account %s: expected version %d, stored %d: %w",
			id, expectedVersion, current.Version, repository.ErrVersionConflict,
		)
	}

	next, entry, err := mutate(current)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.accounts[id] = next
	s.entries[id] = append(s.entries[id], entry)
	s.mu.Unlock()
	return &next, nil
}

// Entries returns a copy of the account's log in sequence order.
func (s *AccountStore) Entries(ctx context.Context, id uuid.UUID) ([]account.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.accounts[id]; !ok {
		return nil, account.ErrAccountNotFound
	}
	log := s.entries[id]
	out := make([]account.Entry, len(log))
	copy(out, log)
	return out, nil
}

var _ repository.AccountStore = (*AccountStore)(nil)
