// Package ledger is the transaction core: it opens accounts, applies
// deposits and withdrawals under optimistic concurrency, and exposes the
// append-only entry log.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jeremi-ah/bankledger/pkg/domain"
	"github.com/jeremi-ah/bankledger/pkg/domain/account"
	"github.com/jeremi-ah/bankledger/pkg/domain/events"
	"github.com/jeremi-ah/bankledger/pkg/eventbus"
	"github.com/jeremi-ah/bankledger/pkg/money"
	"github.com/jeremi-ah/bankledger/pkg/repository"
)

// DefaultMaxRetries bounds the optimistic retry loop when no explicit
// bound is configured.
const DefaultMaxRetries = 5

// createIDAttempts bounds identifier regeneration when CreateAccount picks
// a colliding UUID. Collisions are vanishingly rare; the bound exists so a
// broken store cannot spin the loop forever.
const createIDAttempts = 3

// Service coordinates account mutations against the store. All writes go
// through the store's compare-and-swap; a mutation that keeps losing the
// version race is aborted with domain.ErrContention after maxRetries
// additional attempts.
type Service struct {
	store      repository.AccountStore
	bus        eventbus.Bus
	logger     *slog.Logger
	maxRetries int
}

// New creates a ledger service. maxRetries <= 0 selects DefaultMaxRetries.
func New(
	store repository.AccountStore,
	bus eventbus.Bus,
	logger *slog.Logger,
	maxRetries int,
) *Service {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Service{store: store, bus: bus, logger: logger, maxRetries: maxRetries}
}

// CreateAccount opens an account for ownerID with the given opening balance
// and commits it together with its opening log entry.
func (s *Service) CreateAccount(
	ctx context.Context,
	ownerID uuid.UUID,
	holderName string,
	initialBalance money.Money,
) (*account.Account, error) {
	log := s.logger.With("context", "CreateAccount", "ownerID", ownerID)

	if initialBalance.IsNegative() {
		log.Warn("CreateAccount rejected", "error", account.ErrNegativeInitialBalance)
		return nil, account.ErrNegativeInitialBalance
	}

	var lastErr error
	for attempt := 0; attempt < createIDAttempts; attempt++ {
		a, err := account.New().
			WithOwnerID(ownerID).
			WithHolderName(holderName).
			WithBalance(initialBalance.Amount()).
			WithCurrency(initialBalance.Currency()).
			Build()
		if err != nil {
			log.Warn("CreateAccount rejected", "error", err)
			return nil, err
		}

		opening := account.NewEntry(a, account.EntryCreate, a.Balance)
		err = s.store.Create(ctx, a, opening)
		if err == nil {
			log.Info("CreateAccount successful", "accountID", a.ID)
			s.publish(ctx, a, opening)
			return a, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			log.Error("CreateAccount failed", "error", err)
			return nil, err
		}
		lastErr = err
		log.Warn("CreateAccount identifier collision, regenerating", "accountID", a.ID)
	}
	return nil, fmt.Errorf("create account for owner %s: %w", ownerID, lastErr)
}

// Deposit adds amount to the account's balance on behalf of customerID.
func (s *Service) Deposit(
	ctx context.Context,
	customerID, accountID uuid.UUID,
	amount money.Money,
) (*account.Account, error) {
	return s.mutate(ctx, customerID, accountID, account.EntryDeposit, amount,
		func(current account.Account) (account.Account, error) {
			return current.Deposited(amount)
		})
}

// Withdraw removes amount from the account's balance on behalf of
// customerID. The balance check always runs against the snapshot being
// committed, so a withdrawal can never drive a committed balance negative.
func (s *Service) Withdraw(
	ctx context.Context,
	customerID, accountID uuid.UUID,
	amount money.Money,
) (*account.Account, error) {
	return s.mutate(ctx, customerID, accountID, account.EntryWithdraw, amount,
		func(current account.Account) (account.Account, error) {
			return current.Withdrawn(amount)
		})
}

// mutate runs the optimistic loop: read a fresh snapshot, authorize, apply,
// and compare-and-swap. A version conflict triggers a retry from a fresh
// read; after maxRetries additional attempts the operation aborts with
// domain.ErrContention and no partial effects.
func (s *Service) mutate(
	ctx context.Context,
	customerID, accountID uuid.UUID,
	kind account.EntryKind,
	amount money.Money,
	apply func(current account.Account) (account.Account, error),
) (*account.Account, error) {
	log := s.logger.With(
		"context", string(kind),
		"customerID", customerID,
		"accountID", accountID,
	)

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		current, err := s.store.Get(ctx, accountID)
		if err != nil {
			log.Warn("mutation failed", "error", err)
			return nil, err
		}
		if err := current.ValidateOwner(customerID); err != nil {
			log.Warn("mutation forbidden", "ownerID", current.OwnerID)
			return nil, fmt.Errorf("account %s: %w", accountID, domain.ErrForbidden)
		}

		var entry account.Entry
		committed, err := s.store.CompareAndSwap(ctx, accountID, current.Version,
			func(cur account.Account) (account.Account, account.Entry, error) {
				next, err := apply(cur)
				if err != nil {
					return account.Account{}, account.Entry{}, err
				}
				entry = account.NewEntry(&next, kind, amount)
				return next, entry, nil
			})
		if err == nil {
			log.Info("mutation committed",
				"version", committed.Version, "balance", committed.Balance.String())
			s.publish(ctx, committed, entry)
			return committed, nil
		}
		if errors.Is(err, repository.ErrVersionConflict) {
			log.Debug("version conflict, retrying", "attempt", attempt+1)
			continue
		}
		log.Warn("mutation failed", "error", err)
		return nil, err
	}

	log.Warn("mutation aborted", "error", domain.ErrContention, "retries", s.maxRetries)
	return nil, fmt.Errorf("account %s: %w", accountID, domain.ErrContention)
}

// GetAccount returns the account's current state, restricted to its owner.
func (s *Service) GetAccount(
	ctx context.Context,
	customerID, accountID uuid.UUID,
) (*account.Account, error) {
	a, err := s.store.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := a.ValidateOwner(customerID); err != nil {
		return nil, fmt.Errorf("account %s: %w", accountID, domain.ErrForbidden)
	}
	return a, nil
}

// GetEntries returns the account's append-only log in sequence order,
// restricted to its owner.
func (s *Service) GetEntries(
	ctx context.Context,
	customerID, accountID uuid.UUID,
) ([]account.Entry, error) {
	if _, err := s.GetAccount(ctx, customerID, accountID); err != nil {
		return nil, err
	}
	return s.store.Entries(ctx, accountID)
}

// publish emits a TransactionCommitted event for an already committed
// mutation. Publishing failures are logged and swallowed: the ledger state
// is the source of truth and the commit already happened.
func (s *Service) publish(ctx context.Context, a *account.Account, entry account.Entry) {
	if s.bus == nil {
		return
	}
	evt := events.TransactionCommitted{
		EventID:          uuid.New(),
		AccountID:        a.ID,
		OwnerID:          a.OwnerID,
		Kind:             string(entry.Kind),
		Amount:           entry.Amount.Amount(),
		Currency:         entry.Amount.Currency().String(),
		ResultingBalance: entry.ResultingBalance.Amount(),
		Sequence:         entry.Sequence,
		CommittedAt:      entry.CreatedAt,
	}
	if err := s.bus.Emit(ctx, evt); err != nil {
		s.logger.Error("event publish failed",
			"accountID", a.ID, "sequence", entry.Sequence, "error", err)
	}
}
