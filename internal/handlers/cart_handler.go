package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gadgetstore/internal/handlers/response"
	"gadgetstore/internal/middleware"
	"gadgetstore/internal/services"
)

// CartHandler serves the caller's shopping cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service, validate: newValidator()}
}

// RegisterRoutes registers the cart routes on an authenticated group.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleList)
	router.Post("/", h.HandleAdd)
	router.Delete("/", h.HandleClear)
	router.Patch("/:productId", h.HandleUpdateQuantity)
	router.Delete("/:productId", h.HandleRemove)
}

type addToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type cartQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

func (h *CartHandler) HandleList(c *fiber.Ctx) error {
	view, err := h.service.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return response.OK(c, view)
}

func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req addToCartRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	view, err := h.service.Add(c.UserContext(), middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, view, "Product added to cart")
}

// HandleUpdateQuantity sets a line's quantity; zero removes the line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req cartQuantityRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	view, err := h.service.UpdateQuantity(c.UserContext(), middleware.UserID(c), c.Params("productId"), *req.Quantity)
	if err != nil {
		return err
	}
	return response.OK(c, view)
}

func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	view, err := h.service.Remove(c.UserContext(), middleware.UserID(c), c.Params("productId"))
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, view, "Product removed from cart")
}

func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.service.Clear(c.UserContext(), middleware.UserID(c)); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, nil, "Cart cleared")
}
