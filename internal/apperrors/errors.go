// Package apperrors defines the errors the API surfaces to clients.
package apperrors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError is an error that carries its HTTP status and a business code.
type AppError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// New creates an AppError.
func New(httpCode int, errorCode, message string) *AppError {
	return &AppError{httpCode: httpCode, errorCode: errorCode, message: message}
}

func (e *AppError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}
	return e.message
}

func (e *AppError) HTTPCode() int     { return e.httpCode }
func (e *AppError) ErrorCode() string { return e.errorCode }
func (e *AppError) Message() string   { return e.message }
func (e *AppError) Details() string   { return e.details }

// Is matches on the business code so that copies made by WithDetails still
// compare equal to the predefined value.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.errorCode == t.errorCode
}

// WithDetails returns a copy of e with details attached.
func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// From extracts the AppError from err's chain.
func From(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

var (
	ErrInternal       = New(http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again later")
	ErrInvalidRequest = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request")
	ErrValidation     = New(http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed")
	ErrUnauthorized   = New(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	ErrForbidden      = New(http.StatusForbidden, "FORBIDDEN", "You are not allowed to do this")
	ErrNotFound       = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrConflict       = New(http.StatusConflict, "CONFLICT", "Resource already exists")

	// Auth
	ErrInvalidCredentials = New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrInvalidToken       = New(http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
	ErrEmailTaken         = New(http.StatusConflict, "EMAIL_TAKEN", "This email is already registered")
	ErrUsernameTaken      = New(http.StatusConflict, "USERNAME_TAKEN", "This username is already taken")
	ErrInvalidCode        = New(http.StatusBadRequest, "INVALID_CODE", "The verification code is invalid")
	ErrCodeExpired        = New(http.StatusBadRequest, "CODE_EXPIRED", "The verification code has expired")
	ErrWrongPassword      = New(http.StatusBadRequest, "WRONG_PASSWORD", "Current password is incorrect")

	// Catalog
	ErrUserNotFound      = New(http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	ErrProductNotFound   = New(http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	ErrProductInactive   = New(http.StatusBadRequest, "PRODUCT_INACTIVE", "Product is not available")
	ErrCategoryNotFound  = New(http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found")
	ErrCategoryInUse     = New(http.StatusConflict, "CATEGORY_IN_USE", "Category still has products")
	ErrRoleNotFound      = New(http.StatusNotFound, "ROLE_NOT_FOUND", "Role not found")
	ErrStatusNotFound    = New(http.StatusNotFound, "STATUS_NOT_FOUND", "Status not found")
	ErrInUse             = New(http.StatusConflict, "IN_USE", "Resource is still referenced")
	ErrInsufficientStock = New(http.StatusConflict, "INSUFFICIENT_STOCK", "Not enough items in stock")

	// Cart & orders
	ErrCartEmpty         = New(http.StatusBadRequest, "CART_EMPTY", "Your cart is empty")
	ErrCartItemNotFound  = New(http.StatusNotFound, "CART_ITEM_NOT_FOUND", "Product is not in your cart")
	ErrOrderNotFound     = New(http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
	ErrOrderCancelled    = New(http.StatusConflict, "ORDER_CANCELLED", "A cancelled order cannot change status")
	ErrInvalidTransition = New(http.StatusConflict, "INVALID_STATUS_TRANSITION", "This status change is not allowed")

	// Promotions
	ErrPromotionNotFound = New(http.StatusNotFound, "PROMOTION_NOT_FOUND", "Promotion not found")
	ErrInvalidDuration   = New(http.StatusBadRequest, "INVALID_DURATION", "Invalid promotion duration")
	ErrInvalidPercentage = New(http.StatusBadRequest, "INVALID_PERCENTAGE", "Percentage must be between 1 and 99")
	ErrNoPromotionTarget = New(http.StatusBadRequest, "NO_PROMOTION_TARGET", "Promotion must target at least one product or category")
	ErrTickInProgress    = New(http.StatusConflict, "TICK_IN_PROGRESS", "Promotion countdown is already running")
)
