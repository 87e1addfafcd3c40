package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gadgetstore/internal/handlers/response"
	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
	"gadgetstore/internal/services"
)

// DictionaryHandler exposes CRUD for one lookup entity. decode reads and
// validates the request body into a fresh entity.
type DictionaryHandler[T repositories.Dictionary] struct {
	service  *services.DictionaryService[T]
	validate *validator.Validate
	decode   func(c *fiber.Ctx, v *validator.Validate) (*T, error)
	label    string
}

// RegisterRoutes registers the public read routes.
func (h *DictionaryHandler[T]) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleList)
	router.Get("/:id", h.HandleGet)
}

// RegisterAdminRoutes registers the full CRUD set.
func (h *DictionaryHandler[T]) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/", h.HandleList)
	router.Get("/:id", h.HandleGet)
	router.Post("/", h.HandleCreate)
	router.Put("/:id", h.HandleUpdate)
	router.Delete("/:id", h.HandleDelete)
}

func (h *DictionaryHandler[T]) HandleList(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return response.OK(c, items)
}

func (h *DictionaryHandler[T]) HandleGet(c *fiber.Ctx) error {
	item, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.OK(c, item)
}

func (h *DictionaryHandler[T]) HandleCreate(c *fiber.Ctx) error {
	item, err := h.decode(c, h.validate)
	if err != nil {
		return err
	}
	if err := h.service.Create(c.UserContext(), item); err != nil {
		return err
	}
	return response.Created(c, item, h.label+" created")
}

func (h *DictionaryHandler[T]) HandleUpdate(c *fiber.Ctx) error {
	item, err := h.decode(c, h.validate)
	if err != nil {
		return err
	}
	updated, err := h.service.Update(c.UserContext(), c.Params("id"), item)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, updated, h.label+" updated")
}

func (h *DictionaryHandler[T]) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, nil, h.label+" deleted")
}

type namedRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type attributeRequest struct {
	Kind  string `json:"kind" validate:"required,max=30"`
	Value string `json:"value" validate:"required,max=100"`
}

func NewCategoryHandler(service *services.DictionaryService[models.Category]) *DictionaryHandler[models.Category] {
	return &DictionaryHandler[models.Category]{
		service:  service,
		validate: newValidator(),
		label:    "Category",
		decode: func(c *fiber.Ctx, v *validator.Validate) (*models.Category, error) {
			var req namedRequest
			if err := bind(c, v, &req); err != nil {
				return nil, err
			}
			return &models.Category{Name: req.Name, Description: req.Description}, nil
		},
	}
}

func NewBrandHandler(service *services.DictionaryService[models.Brand]) *DictionaryHandler[models.Brand] {
	return &DictionaryHandler[models.Brand]{
		service:  service,
		validate: newValidator(),
		label:    "Brand",
		decode: func(c *fiber.Ctx, v *validator.Validate) (*models.Brand, error) {
			var req namedRequest
			if err := bind(c, v, &req); err != nil {
				return nil, err
			}
			return &models.Brand{Name: req.Name, Description: req.Description}, nil
		},
	}
}

func NewAttributeHandler(service *services.DictionaryService[models.Attribute]) *DictionaryHandler[models.Attribute] {
	return &DictionaryHandler[models.Attribute]{
		service:  service,
		validate: newValidator(),
		label:    "Attribute",
		decode: func(c *fiber.Ctx, v *validator.Validate) (*models.Attribute, error) {
			var req attributeRequest
			if err := bind(c, v, &req); err != nil {
				return nil, err
			}
			return &models.Attribute{Kind: req.Kind, Value: req.Value}, nil
		},
	}
}

func NewRoleHandler(service *services.DictionaryService[models.Role]) *DictionaryHandler[models.Role] {
	return &DictionaryHandler[models.Role]{
		service:  service,
		validate: newValidator(),
		label:    "Role",
		decode: func(c *fiber.Ctx, v *validator.Validate) (*models.Role, error) {
			var req namedRequest
			if err := bind(c, v, &req); err != nil {
				return nil, err
			}
			return &models.Role{Name: req.Name}, nil
		},
	}
}

func NewStatusHandler(service *services.DictionaryService[models.Status]) *DictionaryHandler[models.Status] {
	return &DictionaryHandler[models.Status]{
		service:  service,
		validate: newValidator(),
		label:    "Status",
		decode: func(c *fiber.Ctx, v *validator.Validate) (*models.Status, error) {
			var req namedRequest
			if err := bind(c, v, &req); err != nil {
				return nil, err
			}
			return &models.Status{Name: req.Name}, nil
		},
	}
}
