// Package account exposes the account endpoints: open, read, deposit,
// withdraw, balance, and transaction log.
package account

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jeremi-ah/bankledger/config"
	acctdomain "github.com/jeremi-ah/bankledger/pkg/domain/account"
	"github.com/jeremi-ah/bankledger/pkg/middleware"
	"github.com/jeremi-ah/bankledger/pkg/money"
	authsvc "github.com/jeremi-ah/bankledger/pkg/service/auth"
	ledgersvc "github.com/jeremi-ah/bankledger/pkg/service/ledger"
	"github.com/jeremi-ah/bankledger/webapi/common"
)

// Routes registers the account endpoints. Every route requires a valid
// bearer token.
//
// Routes:
//   - POST /api/accounts                  : Open a new account.
//   - GET  /api/accounts/:id              : Read the account.
//   - PUT  /api/accounts/:id/deposit      : Deposit funds.
//   - PUT  /api/accounts/:id/withdraw     : Withdraw funds.
//   - GET  /api/accounts/:id/balance      : Read the balance.
//   - GET  /api/accounts/:id/transactions : List the transaction log.
func Routes(app *fiber.App, ledgerSvc *ledgersvc.Service, authSvc *authsvc.Service, cfg *config.AppConfig) {
	protected := middleware.JwtProtected(cfg.Jwt)
	app.Post("/api/accounts", protected, CreateAccount(ledgerSvc, authSvc))
	app.Get("/api/accounts/:id", protected, GetAccount(ledgerSvc, authSvc))
	app.Put("/api/accounts/:id/deposit", protected, Deposit(ledgerSvc, authSvc))
	app.Put("/api/accounts/:id/withdraw", protected, Withdraw(ledgerSvc, authSvc))
	app.Get("/api/accounts/:id/balance", protected, GetBalance(ledgerSvc, authSvc))
	app.Get("/api/accounts/:id/transactions", protected, GetTransactions(ledgerSvc, authSvc))
}

// currentUserID resolves the authenticated customer from the verified
// token, or writes the 403 response and reports failure.
func currentUserID(c *fiber.Ctx, authSvc *authsvc.Service) (uuid.UUID, bool, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, false, common.ProblemDetailsJSON(c, "Forbidden", nil,
			"missing user context", fiber.StatusForbidden)
	}
	userID, err := authSvc.GetCurrentUserID(token)
	if err != nil {
		return uuid.Nil, false, common.ProblemDetailsJSON(c, "Forbidden", err,
			"Invalid or missing token", fiber.StatusForbidden)
	}
	return userID, true, nil
}

// pathAccountID parses the :id route parameter, or writes the 400 response
// and reports failure.
func pathAccountID(c *fiber.Ctx) (uuid.UUID, bool, error) {
	accountID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false, common.ProblemDetailsJSON(c, "Invalid account ID", err,
			"Account ID must be a valid UUID", fiber.StatusBadRequest)
	}
	return accountID, true, nil
}

// CreateAccount opens an account for the authenticated customer.
// @Summary Open a new account
// @Description Opens an account with the given holder name and opening balance
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account details"
// @Success 201 {object} common.Response "Account created"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 403 {object} common.ProblemDetails "Forbidden"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /api/accounts [post]
// @Security Bearer
func CreateAccount(ledgerSvc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := currentUserID(c, authSvc)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		currency := money.DefaultCurrency
		if input.Currency != "" {
			currency = money.Code(input.Currency)
		}
		balance, err := money.FromDecimal(input.Balance, currency)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid balance", err)
		}
		a, err := ledgerSvc.CreateAccount(c.Context(), userID, input.AccountHolderName, balance)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created",
			toAccountResponse(a))
	}
}

// GetAccount returns the account state for its owner.
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/accounts/{id} [get]
// @Security Bearer
func GetAccount(ledgerSvc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := currentUserID(c, authSvc)
		if !ok {
			return err
		}
		accountID, ok, err := pathAccountID(c)
		if !ok {
			return err
		}
		a, err := ledgerSvc.GetAccount(c.Context(), userID, accountID)
		if err != nil {
			return accountProblem(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account", toAccountResponse(a))
	}
}

// Deposit adds funds to the account.
// @Summary Deposit funds into an account
// @Description Adds the given amount to the account balance
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body AmountRequest true "Deposit amount"
// @Success 200 {object} common.Response "Deposit successful"
// @Failure 400 {object} common.ProblemDetails "Invalid amount"
// @Failure 403 {object} common.ProblemDetails "Forbidden"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 409 {object} common.ProblemDetails "Contention"
// @Router /api/accounts/{id}/deposit [put]
// @Security Bearer
func Deposit(ledgerSvc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return mutationHandler(ledgerSvc, authSvc, "Deposit successful",
		func(c *fiber.Ctx, userID, accountID uuid.UUID, amount money.Money) (*acctdomain.Account, error) {
			return ledgerSvc.Deposit(c.Context(), userID, accountID, amount)
		})
}

// Withdraw removes funds from the account.
// @Summary Withdraw funds from an account
// @Description Removes the given amount from the account balance
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body AmountRequest true "Withdrawal amount"
// @Success 200 {object} common.Response "Withdrawal successful"
// @Failure 400 {object} common.ProblemDetails "Invalid amount or insufficient balance"
// @Failure 403 {object} common.ProblemDetails "Forbidden"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 409 {object} common.ProblemDetails "Contention"
// @Router /api/accounts/{id}/withdraw [put]
// @Security Bearer
func Withdraw(ledgerSvc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return mutationHandler(ledgerSvc, authSvc, "Withdrawal successful",
		func(c *fiber.Ctx, userID, accountID uuid.UUID, amount money.Money) (*acctdomain.Account, error) {
			return ledgerSvc.Withdraw(c.Context(), userID, accountID, amount)
		})
}

func mutationHandler(
	ledgerSvc *ledgersvc.Service,
	authSvc *authsvc.Service,
	successMsg string,
	op func(c *fiber.Ctx, userID, accountID uuid.UUID, amount money.Money) (*acctdomain.Account, error),
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := currentUserID(c, authSvc)
		if !ok {
			return err
		}
		accountID, ok, err := pathAccountID(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[AmountRequest](c)
		if input == nil {
			return err // error response already written
		}
		currency := money.Code(input.Currency)
		if currency == "" {
			// Amounts without an explicit currency are taken in the
			// account's own currency.
			current, err := ledgerSvc.GetAccount(c.Context(), userID, accountID)
			if err != nil {
				return accountProblem(c, err)
			}
			currency = current.Balance.Currency()
		}
		amount, err := money.FromDecimal(input.Amount, currency)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid amount", err)
		}
		a, err := op(c, userID, accountID, amount)
		if err != nil {
			return accountProblem(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, successMsg, toAccountResponse(a))
	}
}

// GetBalance returns the account balance for its owner.
// @Summary Get the account balance
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/accounts/{id}/balance [get]
// @Security Bearer
func GetBalance(ledgerSvc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := currentUserID(c, authSvc)
		if !ok {
			return err
		}
		accountID, ok, err := pathAccountID(c)
		if !ok {
			return err
		}
		a, err := ledgerSvc.GetAccount(c.Context(), userID, accountID)
		if err != nil {
			return accountProblem(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance", BalanceResponse{
			AccountID: a.ID,
			Balance:   a.Balance.Decimal(),
			Currency:  a.Balance.Currency().String(),
		})
	}
}

// GetTransactions lists the account's transaction log in sequence order.
// @Summary List account transactions
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/accounts/{id}/transactions [get]
// @Security Bearer
func GetTransactions(ledgerSvc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := currentUserID(c, authSvc)
		if !ok {
			return err
		}
		accountID, ok, err := pathAccountID(c)
		if !ok {
			return err
		}
		entries, err := ledgerSvc.GetEntries(c.Context(), userID, accountID)
		if err != nil {
			return accountProblem(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions",
			toEntryResponses(entries))
	}
}

// accountProblem renders a ledger error with the wording clients match on.
func accountProblem(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, acctdomain.ErrAccountNotFound):
		return common.ProblemDetailsJSON(c, "Account not found", err,
			"Account not found", fiber.StatusNotFound)
	case errors.Is(err, acctdomain.ErrInsufficientBalance):
		return common.ProblemDetailsJSON(c, "Insufficient balance", err,
			"Insufficient balance", fiber.StatusBadRequest)
	default:
		return common.ProblemDetailsJSON(c, "Operation failed", err)
	}
}
