package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gadgetstore/internal/handlers/response"
	"gadgetstore/internal/middleware"
	"gadgetstore/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the customer order routes on an authenticated group.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/", h.HandleCreateOrder)
	router.Get("/", h.HandleGetOrders)
	router.Get("/:id", h.HandleGetOrderByID)
	router.Post("/:id/cancel", h.HandleCancelOrder)
}

// RegisterAdminRoutes registers the back-office order routes.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/", h.HandleListAllOrders)
	router.Get("/:id", h.HandleAdminGetOrder)
	router.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// CreateOrderRequest carries the delivery details for checkout.
type CreateOrderRequest struct {
	FullName   string `json:"full_name" validate:"required,max=150"`
	Phone      string `json:"phone" validate:"required,max=30"`
	Address    string `json:"address" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Country    string `json:"country" validate:"required,max=100"`
	Notes      string `json:"notes" validate:"max=500"`
}

// UpdateStatusRequest represents the request body for updating an order status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleCreateOrder turns the caller's cart into orders.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	orders, err := h.service.PlaceOrder(c.UserContext(), middleware.UserID(c), services.DeliveryInput{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Notes:      req.Notes,
	})
	if err != nil {
		return err
	}
	return response.Created(c, orders, "Order placed successfully")
}

// HandleGetOrders lists the caller's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListForUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return response.OK(c, orders)
}

// HandleGetOrderByID retrieves one of the caller's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetForUser(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return response.OK(c, order)
}

// HandleCancelOrder cancels one of the caller's pending orders.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	order, err := h.service.Cancel(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, order, "Order cancelled")
}

// HandleListAllOrders lists every order, optionally filtered by ?status=.
func (h *OrderHandler) HandleListAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	return response.OK(c, orders)
}

func (h *OrderHandler) HandleAdminGetOrder(c *fiber.Ctx) error {
	order, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.OK(c, order)
}

// HandleUpdateOrderStatus moves an order to another status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	order, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, order, "Order status updated")
}
