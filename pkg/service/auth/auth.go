// Package auth issues and verifies the bearer tokens that gate every
// account operation.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jeremi-ah/bankledger/config"
	"github.com/jeremi-ah/bankledger/pkg/domain/user"
	"github.com/jeremi-ah/bankledger/pkg/repository"
	"github.com/jeremi-ah/bankledger/pkg/utils"
)

// dummyHash keeps login timing flat when the identity is unknown: the
// bcrypt comparison runs either way.
const dummyHash = "$2a$14$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

// Service authenticates customers and mints JWTs carrying their identity.
type Service struct {
	users  repository.UserRepository
	cfg    config.JwtConfig
	logger *slog.Logger
}

// New creates an auth service.
func New(users repository.UserRepository, cfg config.JwtConfig, logger *slog.Logger) *Service {
	return &Service{users: users, cfg: cfg, logger: logger}
}

// Login verifies the credentials and returns the matching customer.
// identity may be a username or an email address. Unknown identities and
// wrong passwords both return user.ErrUserUnauthorized.
func (s *Service) Login(ctx context.Context, identity, password string) (*user.User, error) {
	log := s.logger.With("context", "Login", "identity", identity)

	var (
		u   *user.User
		err error
	)
	if utils.IsEmail(identity) {
		u, err = s.users.GetByEmail(ctx, identity)
	} else {
		u, err = s.users.GetByUsername(ctx, identity)
	}
	if err != nil {
		_ = utils.CheckPasswordHash(password, dummyHash)
		log.Warn("Login failed", "error", user.ErrUserUnauthorized)
		return nil, user.ErrUserUnauthorized
	}
	if !utils.CheckPasswordHash(password, u.HashedPassword) {
		log.Warn("Login failed", "error", user.ErrUserUnauthorized)
		return nil, user.ErrUserUnauthorized
	}
	log.Info("Login successful", "userID", u.ID)
	return u, nil
}

// GenerateToken mints a signed HS256 token for the customer.
func (s *Service) GenerateToken(ctx context.Context, u *user.User) (string, error) {
	log := s.logger.With("context", "GenerateToken", "userID", u.ID)
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = u.ID.String()
	claims["username"] = u.Username
	claims["email"] = u.Email
	claims["exp"] = time.Now().Add(s.cfg.Expiry).Unix()
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		log.Error("GenerateToken failed", "error", err)
		return "", err
	}
	return signed, nil
}

// GetCurrentUserID extracts the authenticated customer's identifier from a
// verified token. Anything missing or malformed maps to
// user.ErrUserUnauthorized.
func (s *Service) GetCurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	if token == nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	return userID, nil
}
