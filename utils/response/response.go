package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/shikshachain/utils/validation"
)

// Error kinds understood by FromError
const (
	KindDuplicateEntity = "duplicate_entity"
	KindNotFound        = "not_found"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}

// kinded is implemented by service errors that carry an API error kind
type kinded interface {
	error
	ErrorKind() string
}

// JSON writes data with the given status
func JSON(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success returns a 200 OK response
func Success(c *fiber.Ctx, data interface{}) error {
	return JSON(c, fiber.StatusOK, data)
}

// Error returns an error response carrying a human readable detail
func Error(c *fiber.Ctx, statusCode int, detail string) error {
	return JSON(c, statusCode, ErrorResponse{Detail: detail})
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c *fiber.Ctx, detail string) error {
	return Error(c, fiber.StatusBadRequest, detail)
}

// Unauthorized returns a 401 Unauthorized response
func Unauthorized(c *fiber.Ctx, detail string) error {
	if detail == "" {
		detail = "Unauthorized access"
	}
	return Error(c, fiber.StatusUnauthorized, detail)
}

// Forbidden returns a 403 Forbidden response
func Forbidden(c *fiber.Ctx, detail string) error {
	if detail == "" {
		detail = "Access forbidden"
	}
	return Error(c, fiber.StatusForbidden, detail)
}

// TooManyRequests returns a 429 Too Many Requests response
func TooManyRequests(c *fiber.Ctx, detail string) error {
	if detail == "" {
		detail = "Too many requests"
	}
	return Error(c, fiber.StatusTooManyRequests, detail)
}

// NotFound returns a 404 Not Found response
func NotFound(c *fiber.Ctx, detail string) error {
	if detail == "" {
		detail = "Resource not found"
	}
	return Error(c, fiber.StatusNotFound, detail)
}

// ValidationError returns a 422 Unprocessable Entity response for validation errors
func ValidationError(c *fiber.Ctx, err error) error {
	return JSON(c, fiber.StatusUnprocessableEntity, ErrorResponse{
		Detail: "Validation failed",
		Errors: validation.FormatValidationErrors(err),
	})
}

// InternalServerError returns a 500 response that passes the error text through
func InternalServerError(c *fiber.Ctx, detail string) error {
	if detail == "" {
		detail = "Internal server error"
	}
	return Error(c, fiber.StatusInternalServerError, detail)
}

// FromError maps a service error onto its status code.
// DuplicateEntity is 400, NotFound is 404 and anything else is 500 with the
// error text as detail.
func FromError(c *fiber.Ctx, err error) error {
	var k kinded
	if errors.As(err, &k) {
		switch k.ErrorKind() {
		case KindDuplicateEntity:
			return BadRequest(c, k.Error())
		case KindNotFound:
			return NotFound(c, k.Error())
		}
	}
	return InternalServerError(c, err.Error())
}
