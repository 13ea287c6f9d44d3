// Package auth exposes the registration and login endpoints.
package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jeremi-ah/bankledger/pkg/domain"
	userdomain "github.com/jeremi-ah/bankledger/pkg/domain/user"
	authsvc "github.com/jeremi-ah/bankledger/pkg/service/auth"
	usersvc "github.com/jeremi-ah/bankledger/pkg/service/user"
	"github.com/jeremi-ah/bankledger/webapi/common"
)

// Routes registers the authentication endpoints.
func Routes(app *fiber.App, userSvc *usersvc.Service, authSvc *authsvc.Service) {
	app.Post("/api/auth/register", Register(userSvc, authSvc))
	app.Post("/api/auth/login", Login(authSvc))
}

// Register creates a customer and returns a token for immediate use.
// @Summary Register a new customer
// @Description Registers a customer with username, email and password, then returns a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterInput true "Registration details"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /api/auth/register [post]
func Register(userSvc *usersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterInput](c)
		if input == nil {
			return err // error response already written
		}
		u, err := userSvc.Register(c.Context(), input.Username, input.Email, input.Password)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return common.ProblemDetailsJSON(c, "Registration failed", err,
					"Username or email already taken", fiber.StatusConflict)
			}
			return common.ProblemDetailsJSON(c, "Registration failed", err,
				fiber.StatusBadRequest)
		}
		token, err := authSvc.GenerateToken(c.Context(), u)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Registration successful",
			fiber.Map{"token": token})
	}
}

// Login authenticates a customer and returns a JWT token.
// @Summary Customer login
// @Description Authenticate with identity (username or email) and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /api/auth/login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err // error response already written
		}
		u, err := authSvc.Login(c.Context(), input.Identity, input.Password)
		if err != nil {
			if errors.Is(err, userdomain.ErrUserUnauthorized) {
				return common.ProblemDetailsJSON(c, "Invalid identity or password", err,
					"Identity or password is incorrect", fiber.StatusUnauthorized)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		}
		token, err := authSvc.GenerateToken(c.Context(), u)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Login successful",
			fiber.Map{"token": token})
	}
}
