// Package app wires configuration, infrastructure, services and HTTP routes
// into a runnable store.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"gadgetstore/internal/config"
	"gadgetstore/internal/database"
	"gadgetstore/internal/handlers/response"
	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
	"gadgetstore/internal/services"
	"gadgetstore/pkg/cache"
	"gadgetstore/pkg/rabbitmq"
)

// Services groups every business service of the store.
type Services struct {
	Auth       *services.AuthService
	Profile    *services.ProfileService
	Categories *services.DictionaryService[models.Category]
	Brands     *services.DictionaryService[models.Brand]
	Attributes *services.DictionaryService[models.Attribute]
	Roles      *services.DictionaryService[models.Role]
	Statuses   *services.DictionaryService[models.Status]
	Products   *services.ProductService
	Favourites *services.FavouriteService
	Cart       *services.CartService
	Orders     *services.OrderService
	Promotions *services.PromotionService
	Users      *services.UserService
	Dashboard  *services.DashboardService
}

// App owns the long-lived resources of a running store.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *gorm.DB
	Store    *repositories.GORMStore
	Cache    cache.Cache
	Broker   *rabbitmq.Client
	Services *Services
	Fiber    *fiber.App
}

// Open connects to the database, migrates the schema, seeds the default roles
// and statuses, connects the cache and the broker, and builds the app.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := database.Open(cfg.DB, logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, err
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		database.Close(db)
		return nil, err
	}

	c, err := openCache(ctx, cfg.Redis, logger)
	if err != nil {
		database.Close(db)
		return nil, err
	}

	var broker *rabbitmq.Client
	if cfg.RabbitMQ.URL != "" {
		broker, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL}, logger)
		if err != nil {
			c.Close()
			database.Close(db)
			return nil, errors.Wrap(err, "failed to initialize RabbitMQ client")
		}
	} else {
		logger.Warn("rabbitmq.url is empty, events will not be published")
	}

	return New(cfg, logger, db, c, broker), nil
}

// ErrNoSharedCache is returned by RequireSharedCache when redis is not
// configured.
var ErrNoSharedCache = errors.New("redis.addr is empty: the API server keeps its cache in memory, " +
	"run the tick there with POST /api/v1/admin/promotions/tick")

// RequireSharedCache fails unless the cache is redis, the only cache a
// separate process can invalidate for the API server.
func RequireSharedCache(cfg config.RedisConfig) error {
	if cfg.Addr == "" {
		return ErrNoSharedCache
	}
	return nil
}

func openCache(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (cache.Cache, error) {
	if cfg.Addr == "" {
		logger.Info("redis.addr is empty, using in-process cache")
		return cache.NewMemoryCache(), nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rc, err := cache.NewRedisCache(pingCtx, cache.RedisConfig{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to redis")
	}
	return rc, nil
}

// New builds services and routes on top of already opened resources. broker
// may be nil.
func New(cfg *config.Config, logger *slog.Logger, db *gorm.DB, c cache.Cache, broker *rabbitmq.Client) *App {
	store := repositories.NewGORMStore(db)

	var publisher services.EventPublisher
	if broker != nil {
		publisher = broker
	}

	auth := services.NewAuthService(
		store.Users(),
		store.VerificationCodes(),
		store.Roles(),
		publisher,
		services.AuthConfig{
			Secret:   cfg.JWT.Secret,
			TokenTTL: cfg.JWT.TTL,
			CodeTTL:  cfg.Recovery.CodeTTL,
		},
		logger,
	)

	svc := &Services{
		Auth:       auth,
		Profile:    services.NewProfileService(store.Users(), auth),
		Categories: services.NewCategoryService(store),
		Brands:     services.NewDictionaryService(store.Brands(), "brand"),
		Attributes: services.NewAttributeService(store),
		Roles:      services.NewDictionaryService(store.Roles(), "role"),
		Statuses:   services.NewDictionaryService(store.Statuses(), "status"),
		Products:   services.NewProductService(store, c, cfg.Cache.TTL, logger),
		Favourites: services.NewFavouriteService(store, c, logger),
		Cart:       services.NewCartService(store),
		Orders:     services.NewOrderService(store, c, publisher, logger),
		Promotions: services.NewPromotionService(store, c, logger),
		Users:      services.NewUserService(store, logger),
		Dashboard:  services.NewDashboardService(store, c, cfg.Cache.TTL, cfg.Dashboard.LowStockThreshold, logger),
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Store:    store,
		Cache:    c,
		Broker:   broker,
		Services: svc,
	}

	a.Fiber = fiber.New(fiber.Config{
		AppName:      "gadgetstore",
		ErrorHandler: response.ErrorHandler(logger),
	})
	a.registerRoutes()
	return a
}

// Listen serves HTTP on the configured port until Shutdown is called.
func (a *App) Listen() error {
	a.Logger.Info("server starting", "addr", a.Config.App.Port)
	return a.Fiber.Listen(a.Config.App.Port)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Fiber.ShutdownWithContext(ctx)
}

// Close releases the broker, cache and database.
func (a *App) Close() error {
	var firstErr error
	if a.Broker != nil {
		if err := a.Broker.Close(); err != nil {
			firstErr = err
		}
	}
	if err := a.Cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := database.Close(a.DB); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
