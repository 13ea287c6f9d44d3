package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jeremi-ah/bankledger/pkg/domain/account"
)

// CreateAccountRequest represents the request body for opening an account.
// Balance is the opening balance in main units (e.g. "10.50"); it defaults
// to zero and must not be negative.
type CreateAccountRequest struct {
	AccountHolderName string          `json:"accountHolderName" validate:"required,min=1,max=255"`
	Balance           decimal.Decimal `json:"balance"`
	Currency          string          `json:"currency" validate:"omitempty,len=3"`
}

// AmountRequest represents the request body for deposits and withdrawals.
// Currency is optional; when omitted the amount is taken in the account's
// own currency.
type AmountRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Currency string          `json:"currency" validate:"omitempty,len=3"`
}

// AccountResponse is the account payload returned by every account
// endpoint.
type AccountResponse struct {
	ID                uuid.UUID       `json:"id"`
	AccountHolderName string          `json:"accountHolderName"`
	Balance           decimal.Decimal `json:"balance"`
	Currency          string          `json:"currency"`
	Version           int64           `json:"version"`
	CreatedAt         time.Time       `json:"created"`
	UpdatedAt         time.Time       `json:"updated"`
}

// BalanceResponse is the payload for the balance endpoint.
type BalanceResponse struct {
	AccountID uuid.UUID       `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}

// EntryResponse is one record of the account's transaction log.
type EntryResponse struct {
	ID               uuid.UUID       `json:"id"`
	Kind             string          `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`
	ResultingBalance decimal.Decimal `json:"resultingBalance"`
	Sequence         int64           `json:"sequence"`
	CreatedAt        time.Time       `json:"created"`
}

func toAccountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:                a.ID,
		AccountHolderName: a.HolderName,
		Balance:           a.Balance.Decimal(),
		Currency:          a.Balance.Currency().String(),
		Version:           a.Version,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func toEntryResponses(entries []account.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryResponse{
			ID:               e.ID,
			Kind:             string(e.Kind),
			Amount:           e.Amount.Decimal(),
			ResultingBalance: e.ResultingBalance.Decimal(),
			Sequence:         e.Sequence,
			CreatedAt:        e.CreatedAt,
		})
	}
	return out
}
