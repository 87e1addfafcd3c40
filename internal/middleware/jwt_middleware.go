package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/services"
)

// Locals keys set for authenticated requests.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// TokenValidator turns a bearer token into the caller's claims.
type TokenValidator interface {
	ValidateToken(token string) (*services.TokenClaims, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperrors.ErrUnauthorized.WithDetails("Authorization header is required")
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			return apperrors.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'")
		}

		claims, err := validator.ValidateToken(tokenString)
		if err != nil {
			return err
		}

		storeClaims(c, claims)
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is sent and lets
// anonymous requests through otherwise.
func OptionalAuth(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization)); ok {
			if claims, err := validator.ValidateToken(tokenString); err == nil {
				storeClaims(c, claims)
			}
		}
		return c.Next()
	}
}

// RequireRole only lets callers with role through. It must run after
// AuthRequired.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Role(c) != role {
			return apperrors.ErrForbidden
		}
		return c.Next()
	}
}

// UserID returns the authenticated caller, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

// Role returns the role of the authenticated caller.
func Role(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalRole).(string)
	return role
}

func storeClaims(c *fiber.Ctx, claims *services.TokenClaims) {
	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalEmail, claims.Email)
	c.Locals(LocalRole, claims.Role)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
