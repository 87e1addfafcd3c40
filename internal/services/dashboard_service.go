package services

import (
	"context"
	"log/slog"
	"time"

	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
	"gadgetstore/pkg/cache"
)

const topProductsLimit = 5

// DashboardStats is the summary shown on the admin dashboard.
type DashboardStats struct {
	Users            int64                       `json:"users"`
	Products         int64                       `json:"products"`
	Orders           int64                       `json:"orders"`
	Revenue          float64                     `json:"revenue"`
	ActivePromotions int64                       `json:"active_promotions"`
	OrdersByStatus   []repositories.StatusCount  `json:"orders_by_status"`
	TopProducts      []repositories.ProductSales `json:"top_products"`
	LowStock         []models.Product            `json:"low_stock"`
	GeneratedAt      time.Time                   `json:"generated_at"`
}

// DashboardService aggregates store statistics for administrators.
type DashboardService struct {
	store             repositories.Store
	cache             cache.Cache
	cacheTTL          time.Duration
	lowStockThreshold int
	logger            *slog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(store repositories.Store, c cache.Cache, cacheTTL time.Duration, lowStockThreshold int, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		store:             store,
		cache:             c,
		cacheTTL:          cacheTTL,
		lowStockThreshold: lowStockThreshold,
		logger:            logger,
	}
}

// Stats returns the dashboard, served from the cache while it is fresh.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var cached DashboardStats
	hit, err := s.cache.Get(ctx, cache.DashboardKey, &cached)
	if err != nil {
		s.logger.Warn("dashboard cache read failed", "error", err)
	}
	if hit {
		return &cached, nil
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cache.DashboardKey, stats, s.cacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", "error", err)
	}
	return stats, nil
}

func (s *DashboardService) compute(ctx context.Context) (*DashboardStats, error) {
	repo := s.store.Dashboard()
	stats := &DashboardStats{GeneratedAt: time.Now().UTC()}

	cancelled, err := s.store.Statuses().GetByName(ctx, models.StatusCancelled)
	if err != nil {
		return nil, err
	}

	if stats.Users, err = repo.Count(ctx, &models.User{}); err != nil {
		return nil, err
	}
	if stats.Products, err = repo.Count(ctx, &models.Product{}); err != nil {
		return nil, err
	}
	if stats.Orders, err = repo.Count(ctx, &models.Order{}); err != nil {
		return nil, err
	}
	if stats.ActivePromotions, err = repo.CountActivePromotions(ctx); err != nil {
		return nil, err
	}

	revenue, err := repo.Revenue(ctx, cancelled.ID)
	if err != nil {
		return nil, err
	}
	stats.Revenue = roundMoney(revenue)

	if stats.OrdersByStatus, err = repo.OrdersByStatus(ctx); err != nil {
		return nil, err
	}
	if stats.TopProducts, err = repo.TopProducts(ctx, cancelled.ID, topProductsLimit); err != nil {
		return nil, err
	}
	if stats.LowStock, err = repo.LowStock(ctx, s.lowStockThreshold); err != nil {
		return nil, err
	}
	return stats, nil
}
