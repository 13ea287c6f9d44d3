// Package webapi provides the HTTP surface of the ledger. It is organized
// into sub-packages:
//   - account: account and transaction endpoints
//   - auth: registration and login endpoints
//   - common: response envelopes and request binding
package webapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jeremi-ah/bankledger/pkg/app"
	accountweb "github.com/jeremi-ah/bankledger/webapi/account"
	authweb "github.com/jeremi-ah/bankledger/webapi/auth"
	"github.com/jeremi-ah/bankledger/webapi/common"
)

// SetupApp initializes Fiber with middleware and all ledger routes.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ProblemDetailsJSON(c, fe.Message, err, fe.Code)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	// Rate limiting keyed by client IP, honoring proxy headers.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Bank ledger API is running! 🚀")
	})

	authweb.Routes(fiberApp, a.UserService, a.AuthService)
	accountweb.Routes(fiberApp, a.LedgerService, a.AuthService, a.Config)
	return fiberApp
}
