// Package apperr defines the error taxonomy surfaced by the API and the
// Fiber handler that maps it onto HTTP responses.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"quotekeeper/internal/telemetry"
)

type Code string

const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION"
)

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return string(e.Code) + ": " + e.Message }

func New(code Code, msg string) *Error { return &Error{Code: code, Message: msg} }

func Unauthorized(msg string) *Error { return New(CodeUnauthorized, msg) }
func Forbidden(msg string) *Error    { return New(CodeForbidden, msg) }
func NotFound(msg string) *Error     { return New(CodeNotFound, msg) }
func Validation(msg string) *Error   { return New(CodeValidation, msg) }

func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeValidation:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is installed as the Fiber app error handler. Taxonomy errors
// keep their code and message; everything else becomes an opaque 500 and is
// logged with the request path.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ae *Error
	if errors.As(err, &ae) {
		return c.Status(ae.HTTPStatus()).JSON(fiber.Map{"error": ae})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fiber.Map{"code": "HTTP", "message": fe.Message},
		})
	}

	telemetry.L().Error().Err(err).Str("path", c.Path()).Msg("request_failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{"code": "INTERNAL", "message": "internal error"},
	})
}
