package handlers

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/handlers/response"
	"gadgetstore/internal/middleware"
	"gadgetstore/internal/repositories"
	"gadgetstore/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service, validate: newValidator()}
}

// RegisterRoutes registers the storefront routes. The group is expected to
// run OptionalAuth so favourites can be marked for signed-in callers.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleList)
	router.Get("/:id", h.HandleGet)
}

// RegisterAdminRoutes registers the catalogue management routes.
func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/", h.HandleAdminList)
	router.Get("/:id", h.HandleAdminGet)
	router.Post("/", h.HandleCreate)
	router.Put("/:id", h.HandleUpdate)
	router.Delete("/:id", h.HandleDelete)
	router.Patch("/:id/active", h.HandleSetActive)
}

// ProductRequest represents the request body for creating or updating a product.
type ProductRequest struct {
	Name         string   `json:"name" validate:"required,max=150"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"image_url" validate:"omitempty,url,max=500"`
	Price        float64  `json:"price" validate:"gt=0"`
	Quantity     int      `json:"quantity" validate:"min=0"`
	CategoryID   string   `json:"category_id" validate:"required"`
	BrandID      *string  `json:"brand_id"`
	AttributeIDs []string `json:"attribute_ids" validate:"dive,required"`
	Active       *bool    `json:"active"`
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (r ProductRequest) input() services.ProductInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return services.ProductInput{
		Name:         r.Name,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		Price:        r.Price,
		Quantity:     r.Quantity,
		CategoryID:   r.CategoryID,
		BrandID:      r.BrandID,
		AttributeIDs: r.AttributeIDs,
		Active:       active,
	}
}

// HandleList lists active products for the storefront.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	return h.list(c, true)
}

// HandleAdminList lists every product, hidden ones included.
func (h *ProductHandler) HandleAdminList(c *fiber.Ctx) error {
	return h.list(c, false)
}

func (h *ProductHandler) list(c *fiber.Ctx, activeOnly bool) error {
	filter, err := productFilter(c)
	if err != nil {
		return err
	}
	filter.ActiveOnly = activeOnly

	page, err := h.service.List(c.UserContext(), filter, c.QueryInt("page", 1), c.QueryInt("limit", services.DefaultPageSize), middleware.UserID(c))
	if err != nil {
		return err
	}
	return response.OK(c, page)
}

// productFilter reads the listing query string:
// search, category, brand, attributes (comma separated), min_price,
// max_price, discounted and sort.
func productFilter(c *fiber.Ctx) (repositories.ProductFilter, error) {
	filter := repositories.ProductFilter{
		Search:         strings.TrimSpace(c.Query("search")),
		CategoryID:     c.Query("category"),
		BrandID:        c.Query("brand"),
		DiscountedOnly: c.QueryBool("discounted", false),
	}

	if raw := c.Query("attributes"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filter.AttributeIDs = append(filter.AttributeIDs, id)
			}
		}
	}

	var err error
	if filter.MinPrice, err = queryPrice(c, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = queryPrice(c, "max_price"); err != nil {
		return filter, err
	}

	switch sort := c.Query("sort", repositories.SortNewest); sort {
	case repositories.SortNewest, repositories.SortPriceAsc, repositories.SortPriceDesc, repositories.SortName:
		filter.Sort = sort
	default:
		return filter, apperrors.ErrInvalidRequest.WithDetails("unknown sort " + sort)
	}
	return filter, nil
}

func queryPrice(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, apperrors.ErrInvalidRequest.WithDetails(key + " must be a non-negative number")
	}
	return &v, nil
}

// HandleGet returns an active product with the caller's favourite mark.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	product, err := h.service.GetForCustomer(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return response.OK(c, product)
}

func (h *ProductHandler) HandleAdminGet(c *fiber.Ctx) error {
	product, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.OK(c, product)
}

// HandleCreate creates a new product.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	product, err := h.service.Create(c.UserContext(), req.input())
	if err != nil {
		return err
	}
	return response.Created(c, product, "Product created")
}

// HandleUpdate replaces the editable fields of a product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	product, err := h.service.Update(c.UserContext(), c.Params("id"), req.input())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, product, "Product updated")
}

func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, nil, "Product deleted")
}

func (h *ProductHandler) HandleSetActive(c *fiber.Ctx) error {
	var req setActiveRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	product, err := h.service.SetActive(c.UserContext(), c.Params("id"), *req.Active)
	if err != nil {
		return err
	}
	return response.OK(c, product)
}
