package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gadgetstore/internal/handlers/response"
	"gadgetstore/internal/services"
)

// PromotionHandler handles HTTP requests for promotions.
type PromotionHandler struct {
	service  *services.PromotionService
	validate *validator.Validate
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(service *services.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: service, validate: newValidator()}
}

// RegisterRoutes registers the public route listing running promotions.
func (h *PromotionHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleListActive)
}

// RegisterAdminRoutes registers promotion management routes.
func (h *PromotionHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/", h.HandleList)
	router.Post("/", h.HandleCreate)
	router.Post("/tick", h.HandleTick)
	router.Get("/:id", h.HandleGet)
	router.Put("/:id", h.HandleUpdate)
	router.Delete("/:id", h.HandleDelete)
}

// PromotionRequest represents the request body for creating or updating a
// promotion. Only the start/end pair matching duration_type is read.
type PromotionRequest struct {
	Name         string     `json:"name" validate:"required,max=150"`
	Description  string     `json:"description" validate:"max=500"`
	Percentage   float64    `json:"percentage" validate:"gte=1,lte=99"`
	DurationType string     `json:"duration_type" validate:"required,oneof=days hours minutes seconds"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	StartHour    *int       `json:"start_hour" validate:"omitempty,min=0,max=23"`
	EndHour      *int       `json:"end_hour" validate:"omitempty,min=0,max=23"`
	StartMinute  *int       `json:"start_minute" validate:"omitempty,min=0,max=59"`
	EndMinute    *int       `json:"end_minute" validate:"omitempty,min=0,max=59"`
	StartSecond  *int       `json:"start_second" validate:"omitempty,min=0,max=59"`
	EndSecond    *int       `json:"end_second" validate:"omitempty,min=0,max=59"`
	ProductIDs   []string   `json:"product_ids" validate:"dive,required"`
	CategoryIDs  []string   `json:"category_ids" validate:"dive,required"`
}

type tickRequest struct {
	Step int64 `json:"step" validate:"omitempty,min=1"`
}

func (r PromotionRequest) input() services.PromotionInput {
	return services.PromotionInput{
		Name:         r.Name,
		Description:  r.Description,
		Percentage:   r.Percentage,
		DurationType: r.DurationType,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		StartHour:    r.StartHour,
		EndHour:      r.EndHour,
		StartMinute:  r.StartMinute,
		EndMinute:    r.EndMinute,
		StartSecond:  r.StartSecond,
		EndSecond:    r.EndSecond,
		ProductIDs:   r.ProductIDs,
		CategoryIDs:  r.CategoryIDs,
	}
}

func (h *PromotionHandler) HandleListActive(c *fiber.Ctx) error {
	promotions, err := h.service.List(c.UserContext(), true)
	if err != nil {
		return err
	}
	return response.OK(c, promotions)
}

// HandleList lists promotions; ?active=true keeps only running ones.
func (h *PromotionHandler) HandleList(c *fiber.Ctx) error {
	promotions, err := h.service.List(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return err
	}
	return response.OK(c, promotions)
}

func (h *PromotionHandler) HandleGet(c *fiber.Ctx) error {
	promotion, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.OK(c, promotion)
}

func (h *PromotionHandler) HandleCreate(c *fiber.Ctx) error {
	var req PromotionRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	promotion, err := h.service.Create(c.UserContext(), req.input())
	if err != nil {
		return err
	}
	return response.Created(c, promotion, "Promotion created")
}

// HandleUpdate replaces a promotion and restarts its countdown.
func (h *PromotionHandler) HandleUpdate(c *fiber.Ctx) error {
	var req PromotionRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	promotion, err := h.service.Update(c.UserContext(), c.Params("id"), req.input())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, promotion, "Promotion updated")
}

func (h *PromotionHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, nil, "Promotion deleted")
}

// HandleTick advances every active countdown. An empty body ticks one second.
func (h *PromotionHandler) HandleTick(c *fiber.Ctx) error {
	var req tickRequest
	if len(c.Body()) > 0 {
		if err := bind(c, h.validate, &req); err != nil {
			return err
		}
	}
	result, err := h.service.Tick(c.UserContext(), req.Step)
	if err != nil {
		return err
	}
	return response.OK(c, result)
}
