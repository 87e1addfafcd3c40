package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gadgetstore/internal/handlers/response"
	"gadgetstore/internal/middleware"
	"gadgetstore/internal/services"
)

// FavouriteHandler serves the caller's favourite products.
type FavouriteHandler struct {
	service *services.FavouriteService
}

func NewFavouriteHandler(service *services.FavouriteService) *FavouriteHandler {
	return &FavouriteHandler{service: service}
}

// RegisterRoutes registers the favourite routes on an authenticated group.
func (h *FavouriteHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleList)
	router.Post("/:productId", h.HandleToggle)
}

type toggleFavouriteResponse struct {
	ProductID string `json:"product_id"`
	Favourite bool   `json:"favourite"`
}

func (h *FavouriteHandler) HandleList(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return response.OK(c, products)
}

// HandleToggle adds the product to favourites or removes it when present.
func (h *FavouriteHandler) HandleToggle(c *fiber.Ctx) error {
	productID := c.Params("productId")
	liked, err := h.service.Toggle(c.UserContext(), middleware.UserID(c), productID)
	if err != nil {
		return err
	}

	msg := "Removed from favourites"
	if liked {
		msg = "Added to favourites"
	}
	return response.Success(c, fiber.StatusOK, toggleFavouriteResponse{ProductID: productID, Favourite: liked}, msg)
}
