package webapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremi-ah/bankledger/config"
	infraeventbus "github.com/jeremi-ah/bankledger/infra/eventbus"
	"github.com/jeremi-ah/bankledger/infra/repository/memory"
	"github.com/jeremi-ah/bankledger/pkg/app"
	"github.com/jeremi-ah/bankledger/webapi"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Env:       "test",
		Jwt:       config.JwtConfig{Secret: "test-secret", Expiry: time.Hour},
		Ledger:    config.LedgerConfig{MaxRetries: 5},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, Window: time.Minute},
	}
}

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	deps := &app.Deps{
		AccountStore: memory.NewAccountStore(),
		UserRepo:     memory.NewUserRepository(),
		EventBus:     infraeventbus.NewWithMemory(slog.Default()),
		Logger:       slog.Default(),
	}
	return webapi.SetupApp(app.New(deps, testConfig()))
}

func makeRequest(t *testing.T, fiberApp *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	return resp
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func registerUser(t *testing.T, fiberApp *fiber.App, username string) string {
	t.Helper()
	resp := makeRequest(t, fiberApp, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

type accountPayload struct {
	ID                string `json:"id"`
	AccountHolderName string `json:"accountHolderName"`
	Balance           string `json:"balance"`
	Currency          string `json:"currency"`
	Version           int64  `json:"version"`
}

func createAccount(t *testing.T, fiberApp *fiber.App, token string, balance string) accountPayload {
	t.Helper()
	resp := makeRequest(t, fiberApp, fiber.MethodPost, "/api/accounts", token, fiber.Map{
		"accountHolderName": "Ada Lovelace",
		"balance":           balance,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	var a accountPayload
	require.NoError(t, json.Unmarshal(env.Data, &a))
	return a
}

func TestRegisterAndLogin(t *testing.T) {
	fiberApp := setupTestApp(t)
	registerUser(t, fiberApp, "ada")

	resp := makeRequest(t, fiberApp, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"identity": "ada",
		"password": "correct-horse-battery",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Contains(t, string(env.Data), "token")
}

func TestLogin_WrongPassword(t *testing.T) {
	fiberApp := setupTestApp(t)
	registerUser(t, fiberApp, "ada")

	resp := makeRequest(t, fiberApp, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"identity": "ada",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAccount(t *testing.T) {
	fiberApp := setupTestApp(t)
	token := registerUser(t, fiberApp, "ada")

	a := createAccount(t, fiberApp, token, "10.00")
	assert.Equal(t, "Ada Lovelace", a.AccountHolderName)
	assert.Equal(t, "10", a.Balance)
	assert.Equal(t, int64(1), a.Version)
}

func TestDepositAndWithdrawFlow(t *testing.T) {
	fiberApp := setupTestApp(t)
	token := registerUser(t, fiberApp, "ada")
	a := createAccount(t, fiberApp, token, "10.00")

	resp := makeRequest(t, fiberApp, fiber.MethodPut,
		fmt.Sprintf("/api/accounts/%s/deposit", a.ID), token,
		fiber.Map{"amount": "5.00"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	var updated accountPayload
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "15", updated.Balance)
	assert.Equal(t, int64(2), updated.Version)

	// Overdraw attempt leaves the balance untouched.
	resp = makeRequest(t, fiberApp, fiber.MethodPut,
		fmt.Sprintf("/api/accounts/%s/withdraw", a.ID), token,
		fiber.Map{"amount": "20.00"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "Insufficient balance")

	resp = makeRequest(t, fiberApp, fiber.MethodPut,
		fmt.Sprintf("/api/accounts/%s/withdraw", a.ID), token,
		fiber.Map{"amount": "15.00"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env = decodeEnvelope(t, resp)
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "0", updated.Balance)
	assert.Equal(t, int64(3), updated.Version)

	resp = makeRequest(t, fiberApp, fiber.MethodGet,
		fmt.Sprintf("/api/accounts/%s/transactions", a.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env = decodeEnvelope(t, resp)
	var entries []struct {
		Kind     string `json:"kind"`
		Sequence int64  `json:"sequence"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "create", entries[0].Kind)
	assert.Equal(t, "deposit", entries[1].Kind)
	assert.Equal(t, "withdraw", entries[2].Kind)
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.Sequence)
	}
}

func TestNonDefaultCurrencyAccount(t *testing.T) {
	fiberApp := setupTestApp(t)
	token := registerUser(t, fiberApp, "ada")

	resp := makeRequest(t, fiberApp, fiber.MethodPost, "/api/accounts", token, fiber.Map{
		"accountHolderName": "Ada Lovelace",
		"balance":           "10.00",
		"currency":          "EUR",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	var a accountPayload
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, "EUR", a.Currency)

	// Amounts without a currency follow the account's currency.
	resp = makeRequest(t, fiberApp, fiber.MethodPut,
		fmt.Sprintf("/api/accounts/%s/deposit", a.ID), token,
		fiber.Map{"amount": "5.00"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env = decodeEnvelope(t, resp)
	var updated accountPayload
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "15", updated.Balance)
	assert.Equal(t, "EUR", updated.Currency)

	// An explicit mismatched currency is rejected and leaves the
	// balance untouched.
	resp = makeRequest(t, fiberApp, fiber.MethodPut,
		fmt.Sprintf("/api/accounts/%s/withdraw", a.ID), token,
		fiber.Map{"amount": "5.00", "currency": "USD"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = makeRequest(t, fiberApp, fiber.MethodPut,
		fmt.Sprintf("/api/accounts/%s/withdraw", a.ID), token,
		fiber.Map{"amount": "15.00", "currency": "EUR"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env = decodeEnvelope(t, resp)
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "0", updated.Balance)
	assert.Equal(t, int64(3), updated.Version)
}

func TestAccountAccess_RequiresValidToken(t *testing.T) {
	fiberApp := setupTestApp(t)

	resp := makeRequest(t, fiberApp, fiber.MethodPost, "/api/accounts", "", fiber.Map{
		"accountHolderName": "Ada Lovelace",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = makeRequest(t, fiberApp, fiber.MethodPost, "/api/accounts", "not-a-token", fiber.Map{
		"accountHolderName": "Ada Lovelace",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAccountAccess_OwnerOnly(t *testing.T) {
	fiberApp := setupTestApp(t)
	ownerToken := registerUser(t, fiberApp, "ada")
	intruderToken := registerUser(t, fiberApp, "eve")
	a := createAccount(t, fiberApp, ownerToken, "10.00")

	resp := makeRequest(t, fiberApp, fiber.MethodPut,
		fmt.Sprintf("/api/accounts/%s/withdraw", a.ID), intruderToken,
		fiber.Map{"amount": "5.00"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = makeRequest(t, fiberApp, fiber.MethodGet,
		fmt.Sprintf("/api/accounts/%s/balance", a.ID), intruderToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The owner still sees the original balance.
	resp = makeRequest(t, fiberApp, fiber.MethodGet,
		fmt.Sprintf("/api/accounts/%s/balance", a.ID), ownerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "10")
}

func TestAccount_NotFound(t *testing.T) {
	fiberApp := setupTestApp(t)
	token := registerUser(t, fiberApp, "ada")

	resp := makeRequest(t, fiberApp, fiber.MethodGet,
		"/api/accounts/7b6a0a7e-3f0f-4a86-93c3-ab8f3d24f5a5", token, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "Account not found")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	fiberApp := setupTestApp(t)
	registerUser(t, fiberApp, "ada")

	resp := makeRequest(t, fiberApp, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "correct-horse-battery",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestInvalidAmounts(t *testing.T) {
	fiberApp := setupTestApp(t)
	token := registerUser(t, fiberApp, "ada")
	a := createAccount(t, fiberApp, token, "10.00")

	for _, amount := range []string{"0", "-5.00", "0.001"} {
		resp := makeRequest(t, fiberApp, fiber.MethodPut,
			fmt.Sprintf("/api/accounts/%s/deposit", a.ID), token,
			fiber.Map{"amount": amount})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "amount %s", amount)
	}

	// The version is untouched after the rejected mutations.
	resp := makeRequest(t, fiberApp, fiber.MethodGet,
		fmt.Sprintf("/api/accounts/%s", a.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	var got accountPayload
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, int64(1), got.Version)
}
