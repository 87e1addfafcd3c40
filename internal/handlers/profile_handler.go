package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gadgetstore/internal/handlers/response"
	"gadgetstore/internal/middleware"
	"gadgetstore/internal/services"
)

// ProfileHandler serves the caller's own account.
type ProfileHandler struct {
	service  *services.ProfileService
	validate *validator.Validate
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service, validate: newValidator()}
}

// RegisterRoutes registers the profile routes on an authenticated group.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleGet)
	router.Put("/", h.HandleUpdate)
	router.Put("/password", h.HandleChangePassword)
}

type updateProfileRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

func (h *ProfileHandler) HandleGet(c *fiber.Ctx) error {
	user, err := h.service.Get(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return response.OK(c, user)
}

func (h *ProfileHandler) HandleUpdate(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.service.Update(c.UserContext(), middleware.UserID(c), services.ProfileUpdate{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, user, "Profile updated")
}

func (h *ProfileHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	if err := h.service.ChangePassword(c.UserContext(), middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, nil, "Password changed")
}
