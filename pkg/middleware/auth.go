// Package middleware provides Fiber middleware for the ledger API.
package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"

	"github.com/jeremi-ah/bankledger/config"
	"github.com/jeremi-ah/bankledger/webapi/common"
)

// JwtProtected guards a route with bearer-token verification. The verified
// token lands in c.Locals("user") for handlers to read.
func JwtProtected(cfg config.JwtConfig) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

// jwtError rejects requests whose token is missing, malformed, expired, or
// carries a bad signature. All of them read as "you may not touch this
// account", hence 403.
func jwtError(c *fiber.Ctx, err error) error {
	return common.ProblemDetailsJSON(c,
		"Forbidden", err, "Invalid or missing token", fiber.StatusForbidden)
}
