package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gadgetstore/internal/handlers/response"
	"gadgetstore/internal/services"
)

// AdminHandler serves user management and the dashboard.
type AdminHandler struct {
	users     *services.UserService
	dashboard *services.DashboardService
	validate  *validator.Validate
}

func NewAdminHandler(users *services.UserService, dashboard *services.DashboardService) *AdminHandler {
	return &AdminHandler{users: users, dashboard: dashboard, validate: newValidator()}
}

// RegisterRoutes registers the routes on the admin group.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/users", h.HandleListUsers)
	router.Patch("/users/:id/role", h.HandleSetRole)
	router.Get("/dashboard", h.HandleDashboard)
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return response.OK(c, users)
}

func (h *AdminHandler) HandleSetRole(c *fiber.Ctx) error {
	var req setRoleRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.users.SetRole(c.UserContext(), c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, user, "Role updated")
}

func (h *AdminHandler) HandleDashboard(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return response.OK(c, stats)
}
