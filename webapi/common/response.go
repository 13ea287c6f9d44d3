// Package common holds the shared response envelope, RFC 9457 problem
// details, request binding, and the domain-error to status-code mapping
// used by every route package.
package common

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jeremi-ah/bankledger/pkg/domain"
	"github.com/jeremi-ah/bankledger/pkg/domain/account"
	"github.com/jeremi-ah/bankledger/pkg/domain/user"
	"github.com/jeremi-ah/bankledger/pkg/money"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ProblemDetailsJSON writes an RFC 9457 problem response. The status is
// taken from extras when given as an int; otherwise it is derived from err
// via ErrorToStatusCode. A string in extras overrides the detail text.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, extras ...any) error {
	status := 0
	detail := ""
	for _, extra := range extras {
		switch v := extra.(type) {
		case int:
			status = v
		case string:
			detail = v
		}
	}
	if status == 0 {
		if err != nil {
			status = ErrorToStatusCode(err)
		} else {
			status = fiber.StatusInternalServerError
		}
	}
	if detail == "" && err != nil {
		detail = err.Error()
	}

	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.OriginalURL(),
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(status).JSON(pd)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, account.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, user.ErrUserUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, account.ErrAmountMustBePositive),
		errors.Is(err, account.ErrNegativeInitialBalance),
		errors.Is(err, account.ErrInsufficientBalance),
		errors.Is(err, account.ErrCurrencyMismatch),
		errors.Is(err, money.ErrTooManyDecimals),
		errors.Is(err, money.ErrAmountOverflow):
		return fiber.StatusBadRequest
	case errors.Is(err, money.ErrInvalidCurrencyCode):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrContention):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. Returns the populated struct, or writes an error
// response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
	}
	return &input, nil
}
