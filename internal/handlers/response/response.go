// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"gadgetstore/internal/apperrors"
)

// Response unified API response structure
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`    // Business error code, e.g., "USER_NOT_FOUND"
	Details string `json:"details"` // Detailed error description
}

// Success successful response
func Success(c *fiber.Ctx, statusCode int, data any, message string) error {
	if message == "" {
		message = "Success"
	}
	return c.Status(statusCode).JSON(Response{
		Success: true,
		Code:    statusCode,
		Message: message,
		Data:    data,
	})
}

// OK is Success with 200.
func OK(c *fiber.Ctx, data any) error {
	return Success(c, http.StatusOK, data, "")
}

// Created is Success with 201.
func Created(c *fiber.Ctx, data any, message string) error {
	return Success(c, http.StatusCreated, data, message)
}

// Error error response
func Error(c *fiber.Ctx, statusCode int, errorCode, message, details string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Code:    statusCode,
		Message: message,
		Error: &ErrorInfo{
			Code:    errorCode,
			Details: details,
		},
	})
}

// ErrorHandler renders errors returned by handlers and middleware.
// AppErrors keep their status and code; anything else is logged and reported
// as an internal error without leaking its text.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := apperrors.From(err); ok {
			if appErr.HTTPCode() >= http.StatusInternalServerError {
				logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
			}
			return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return Error(c, fiberErr.Code, codeForStatus(fiberErr.Code), fiberErr.Message, "")
		}

		logger.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		return Error(c, http.StatusInternalServerError,
			apperrors.ErrInternal.ErrorCode(), apperrors.ErrInternal.Message(), "")
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "ROUTE_NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case http.StatusBadRequest:
		return apperrors.ErrInvalidRequest.ErrorCode()
	default:
		return "HTTP_" + http.StatusText(status)
	}
}
