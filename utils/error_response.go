package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/meinhoongagan/permit-desk/apperr"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// fiberCodes maps the framework's own errors (unknown route, bad method,
// oversized body) onto our codes.
var fiberCodes = map[int]apperr.Code{
	fiber.StatusBadRequest:            apperr.CodeInvalidInput,
	fiber.StatusUnauthorized:          apperr.CodeUnauthenticated,
	fiber.StatusForbidden:             apperr.CodeForbidden,
	fiber.StatusNotFound:              apperr.CodeNotFound,
	fiber.StatusMethodNotAllowed:      apperr.CodeNotFound,
	fiber.StatusConflict:              apperr.CodeConflict,
	fiber.StatusRequestEntityTooLarge: apperr.CodeInvalidInput,
	fiber.StatusTooManyRequests:       apperr.CodeRateLimit,
}

// NewErrorResponse renders err the way clients see it. Internal causes never
// reach the body.
func NewErrorResponse(err error) (int, ErrorResponse) {
	typed := apperr.As(err)
	if typed == nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code, ok := fiberCodes[fe.Code]
			if !ok {
				code = apperr.CodeInternal
			}
			typed = apperr.New(code, fe.Message)
		} else {
			typed = apperr.Internal(err, "unexpected error")
		}
	}

	meta := apperr.MetadataFor(typed.Code())
	msg := meta.PublicMessage
	if typed.Code() != apperr.CodeInternal && typed.Message() != "" {
		msg = typed.Message()
	}

	body := ErrorResponse{Error: APIError{Code: string(typed.Code()), Message: msg}}
	if meta.DetailsAllowed {
		body.Error.Details = typed.Details()
	}
	return meta.HTTPStatus, body
}

// ErrorHandler is the fiber.Config ErrorHandler. Server-side failures are
// logged with their cause; client errors are logged at debug.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := NewErrorResponse(err)

		event := log.Debug()
		if status >= fiber.StatusInternalServerError {
			event = log.Error()
		}
		event.Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Str("error_code", body.Error.Code).
			Msg("request failed")

		return c.Status(status).JSON(body)
	}
}
