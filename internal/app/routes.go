package app

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/handlers"
	"gadgetstore/internal/handlers/response"
	"gadgetstore/internal/middleware"
	"gadgetstore/internal/models"
)

func (a *App) registerRoutes() {
	s := a.Services

	a.Fiber.Use(recover.New())
	a.Fiber.Use(logger.New())

	authRequired := middleware.AuthRequired(s.Auth)
	optionalAuth := middleware.OptionalAuth(s.Auth)

	authHandler := handlers.NewAuthHandler(s.Auth)
	profileHandler := handlers.NewProfileHandler(s.Profile)
	categoryHandler := handlers.NewCategoryHandler(s.Categories)
	brandHandler := handlers.NewBrandHandler(s.Brands)
	attributeHandler := handlers.NewAttributeHandler(s.Attributes)
	roleHandler := handlers.NewRoleHandler(s.Roles)
	statusHandler := handlers.NewStatusHandler(s.Statuses)
	productHandler := handlers.NewProductHandler(s.Products)
	favouriteHandler := handlers.NewFavouriteHandler(s.Favourites)
	cartHandler := handlers.NewCartHandler(s.Cart)
	orderHandler := handlers.NewOrderHandler(s.Orders)
	promotionHandler := handlers.NewPromotionHandler(s.Promotions)
	adminHandler := handlers.NewAdminHandler(s.Users, s.Dashboard)

	api := a.Fiber.Group("/api/v1")
	api.Get("/health", a.handleHealth)

	// Public
	authHandler.RegisterRoutes(api.Group("/auth"))
	productHandler.RegisterRoutes(api.Group("/products", optionalAuth))
	categoryHandler.RegisterRoutes(api.Group("/categories"))
	brandHandler.RegisterRoutes(api.Group("/brands"))
	attributeHandler.RegisterRoutes(api.Group("/attributes"))
	promotionHandler.RegisterRoutes(api.Group("/promotions"))

	// Customer
	profileHandler.RegisterRoutes(api.Group("/profile", authRequired))
	favouriteHandler.RegisterRoutes(api.Group("/favourites", authRequired))
	cartHandler.RegisterRoutes(api.Group("/cart", authRequired))
	orderHandler.RegisterRoutes(api.Group("/orders", authRequired))

	// Back office
	admin := api.Group("/admin", authRequired, middleware.RequireRole(models.RoleAdmin))
	categoryHandler.RegisterAdminRoutes(admin.Group("/categories"))
	brandHandler.RegisterAdminRoutes(admin.Group("/brands"))
	attributeHandler.RegisterAdminRoutes(admin.Group("/attributes"))
	roleHandler.RegisterAdminRoutes(admin.Group("/roles"))
	statusHandler.RegisterAdminRoutes(admin.Group("/statuses"))
	productHandler.RegisterAdminRoutes(admin.Group("/products"))
	promotionHandler.RegisterAdminRoutes(admin.Group("/promotions"))
	orderHandler.RegisterAdminRoutes(admin.Group("/orders"))
	adminHandler.RegisterRoutes(admin)
}

type healthStatus struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	sqlDB, err := a.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		a.Logger.Error("health check failed", "error", err)
		return apperrors.ErrInternal.WithDetails("database unavailable")
	}
	return response.OK(c, healthStatus{Status: "healthy", Time: time.Now().Format(time.RFC3339)})
}
