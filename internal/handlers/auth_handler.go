package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gadgetstore/internal/handlers/response"
	"gadgetstore/internal/models"
	"gadgetstore/internal/services"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the authentication routes on the /auth group.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Post("/recovery/request", h.HandleRecoveryRequest)
	router.Post("/recovery/verify", h.HandleRecoveryVerify)
	router.Post("/recovery/reset", h.HandleRecoveryReset)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=30"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.UserContext(), services.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}
	return response.Created(c, user, "User registered successfully")
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, LoginResponse{Token: token, User: user}, "Login successful")
}

type recoveryRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type recoveryVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type recoveryResetRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Code     string `json:"code" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// HandleRecoveryRequest sends a recovery code to the user's email.
func (h *AuthHandler) HandleRecoveryRequest(c *fiber.Ctx) error {
	var req recoveryRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	if err := h.authService.RequestRecovery(c.UserContext(), req.Email); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusAccepted, nil, "Recovery code sent")
}

// HandleRecoveryVerify checks a recovery code without consuming it.
func (h *AuthHandler) HandleRecoveryVerify(c *fiber.Ctx) error {
	var req recoveryVerifyRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	if err := h.authService.VerifyRecovery(c.UserContext(), req.Email, req.Code); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, nil, "Code is valid")
}

// HandleRecoveryReset sets a new password using a recovery code.
func (h *AuthHandler) HandleRecoveryReset(c *fiber.Ctx) error {
	var req recoveryResetRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.UserContext(), req.Email, req.Code, req.Password); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, nil, "Password updated")
}
