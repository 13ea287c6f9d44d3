package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremi-ah/bankledger/config"
	"github.com/jeremi-ah/bankledger/infra/repository/memory"
	userdomain "github.com/jeremi-ah/bankledger/pkg/domain/user"
	"github.com/jeremi-ah/bankledger/pkg/service/auth"
)

func jwtConfig() config.JwtConfig {
	return config.JwtConfig{Secret: "test-secret", Expiry: time.Hour}
}

func newAuthService(t *testing.T) (*auth.Service, *userdomain.User) {
	t.Helper()
	repo := memory.NewUserRepository()
	u, err := userdomain.NewUser("ada", "ada@example.com", "correct-horse")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
	return auth.New(repo, jwtConfig(), slog.Default()), u
}

func TestLogin_ByUsernameAndEmail(t *testing.T) {
	svc, u := newAuthService(t)

	byName, err := svc.Login(context.Background(), "ada", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := svc.Login(context.Background(), "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Login(context.Background(), "ada", "wrong-password")
	assert.ErrorIs(t, err, userdomain.ErrUserUnauthorized)
}

func TestLogin_UnknownIdentity(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Login(context.Background(), "nobody", "correct-horse")
	assert.ErrorIs(t, err, userdomain.ErrUserUnauthorized)
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	svc, u := newAuthService(t)

	signed, err := svc.GenerateToken(context.Background(), u)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	token, err := jwt.Parse(signed, func(t *jwt.Token) (any, error) {
		return []byte(jwtConfig().Secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	userID, err := svc.GetCurrentUserID(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
}

func TestGetCurrentUserID_BadToken(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.GetCurrentUserID(nil)
	assert.ErrorIs(t, err, userdomain.ErrUserUnauthorized)

	missing := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{})
	_, err = svc.GetCurrentUserID(missing)
	assert.ErrorIs(t, err, userdomain.ErrUserUnauthorized)

	garbage := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "not-a-uuid"})
	_, err = svc.GetCurrentUserID(garbage)
	assert.ErrorIs(t, err, userdomain.ErrUserUnauthorized)
}
