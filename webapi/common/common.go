// Package common holds the response helpers shared by the HTTP handlers.
package common

import (
	"errors"

	"github.com/amirasaad/paycode/pkg/domain/paymentkey"
	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/amirasaad/paycode/pkg/money"
	"github.com/amirasaad/paycode/pkg/payment"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
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

// SuccessResponseJSON writes a Response with status.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseJSON returns a response following RFC 9457 Problem Details
func ErrorResponseJSON(
	c *fiber.Ctx,
	status int,
	title string,
	detail any,
) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()

	// JSON sets the content type, so problem+json goes after it.
	if err := c.Status(status).JSON(pd); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return nil
}

// ProblemDetailsJSON writes err as problem details. The status comes from
// ErrorToStatusCode unless an int is passed in args; a string in args
// replaces the error text as detail.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, args ...any) error {
	status := ErrorToStatusCode(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	var detail any
	if err != nil {
		detail = err.Error()
	}
	for _, a := range args {
		switch v := a.(type) {
		case int:
			status = v
		case string:
			detail = v
		}
	}
	return ErrorResponseJSON(c, status, title, detail)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, payment.ErrInvalidInput),
		errors.Is(err, paymentkey.ErrInvalidKey),
		errors.Is(err, paymentkey.ErrInvalidAddress),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, exchange.ErrInvalidCurrency):
		return fiber.StatusBadRequest
	case errors.Is(err, paymentkey.ErrKeyNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, paymentkey.ErrKeyExists):
		return fiber.StatusConflict
	case errors.Is(err, paymentkey.ErrKeyInactive):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, exchange.ErrPriceUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// BindAndValidate parses the request body and validates it using go-playground/validator.
// Returns a pointer to the struct (populated), or writes an error response and
// returns a nil struct with the write error.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", fields)
		}
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}
	return &input, nil
}
