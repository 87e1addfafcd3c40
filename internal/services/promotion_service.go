package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
	"gadgetstore/pkg/cache"
)

// PromotionInput carries the editable fields of a promotion. Only the
// Start*/End* pair matching DurationType is used.
type PromotionInput struct {
	Name         string
	Description  string
	Percentage   float64
	DurationType string
	StartDate    *time.Time
	EndDate      *time.Time
	StartHour    *int
	EndHour      *int
	StartMinute  *int
	EndMinute    *int
	StartSecond  *int
	EndSecond    *int
	ProductIDs   []string
	CategoryIDs  []string
}

// TickResult reports what a countdown tick changed.
type TickResult struct {
	Decremented int `json:"decremented"`
	Expired     int `json:"expired"`
	Activated   int `json:"activated"`
}

// PromotionService runs the promotion lifecycle: creation, updates, deletion
// and the countdown that expires promotions.
type PromotionService struct {
	store  repositories.Store
	cache  cache.Cache
	logger *slog.Logger
	now    func() time.Time

	tickMu sync.Mutex
}

// NewPromotionService creates a new PromotionService.
func NewPromotionService(store repositories.Store, c cache.Cache, logger *slog.Logger) *PromotionService {
	return &PromotionService{
		store:  store,
		cache:  c,
		logger: logger,
		now:    time.Now,
	}
}

func (s *PromotionService) List(ctx context.Context, activeOnly bool) ([]models.Promotion, error) {
	return s.store.Promotions().List(ctx, activeOnly)
}

func (s *PromotionService) Get(ctx context.Context, id string) (*models.Promotion, error) {
	return s.store.Promotions().GetByID(ctx, id)
}

// Create stores a promotion and discounts every product it covers once it is
// active.
func (s *PromotionService) Create(ctx context.Context, in PromotionInput) (*models.Promotion, error) {
	promotion := &models.Promotion{}
	var touched []string
	err := s.store.Execute(ctx, func(repos repositories.Repositories) error {
		if err := s.apply(ctx, repos, promotion, in); err != nil {
			return err
		}
		if err := repos.Promotions().Create(ctx, promotion); err != nil {
			return apperrors.TranslateWrite(err, "promotion")
		}

		covered, err := repos.Promotions().ProductIDs(ctx, promotion.ID)
		if err != nil {
			return err
		}
		touched = covered
		return repriceAll(ctx, repos, covered, "")
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, touched)
	s.logger.Info("promotion created", "promotion_id", promotion.ID, "products", len(touched), "remaining_time", promotion.RemainingTime)
	return s.store.Promotions().GetByID(ctx, promotion.ID)
}

// Update replaces a promotion's fields and restarts its countdown, activating
// it again unless its start date lies ahead. Products that are no longer
// covered lose the discount unless another active promotion still covers
// them.
func (s *PromotionService) Update(ctx context.Context, id string, in PromotionInput) (*models.Promotion, error) {
	var touched []string
	err := s.store.Execute(ctx, func(repos repositories.Repositories) error {
		promotion, err := repos.Promotions().GetByID(ctx, id)
		if err != nil {
			return err
		}
		before, err := repos.Promotions().ProductIDs(ctx, id)
		if err != nil {
			return err
		}

		if err := s.apply(ctx, repos, promotion, in); err != nil {
			return err
		}
		if err := repos.Promotions().Update(ctx, promotion); err != nil {
			return apperrors.TranslateWrite(err, "promotion")
		}

		after, err := repos.Promotions().ProductIDs(ctx, id)
		if err != nil {
			return err
		}
		touched = union(before, after)
		return repriceAll(ctx, repos, touched, "")
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, touched)
	s.logger.Info("promotion updated", "promotion_id", id, "products", len(touched))
	return s.store.Promotions().GetByID(ctx, id)
}

// Delete removes a promotion. Each product it covered keeps a discount only
// if another active promotion still covers it.
func (s *PromotionService) Delete(ctx context.Context, id string) error {
	var touched []string
	err := s.store.Execute(ctx, func(repos repositories.Repositories) error {
		if _, err := repos.Promotions().GetByID(ctx, id); err != nil {
			return err
		}
		covered, err := repos.Promotions().ProductIDs(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.Promotions().Delete(ctx, id); err != nil {
			return err
		}
		touched = covered
		return repriceAll(ctx, repos, covered, id)
	})
	if err != nil {
		return err
	}

	s.afterWrite(ctx, touched)
	s.logger.Info("promotion deleted", "promotion_id", id, "products", len(touched))
	return nil
}

// Tick advances the countdown of every active promotion by step seconds and
// expires those that reach one second or less, then activates scheduled
// promotions whose start date has passed. Overlapping ticks in the same
// process are refused.
func (s *PromotionService) Tick(ctx context.Context, step int64) (*TickResult, error) {
	if step < 1 {
		step = 1
	}
	if !s.tickMu.TryLock() {
		return nil, apperrors.ErrTickInProgress
	}
	defer s.tickMu.Unlock()

	result := &TickResult{}
	var touched []string
	err := s.store.Execute(ctx, func(repos repositories.Repositories) error {
		expired, err := repos.Statuses().GetByName(ctx, models.StatusExpired)
		if err != nil {
			return err
		}
		active, err := repos.Promotions().List(ctx, true)
		if err != nil {
			return err
		}

		for _, promotion := range active {
			remaining := promotion.RemainingTime - step
			if remaining > 1 {
				if err := repos.Promotions().SetRemainingTime(ctx, promotion.ID, remaining); err != nil {
					return err
				}
				result.Decremented++
				continue
			}

			if err := repos.Promotions().Expire(ctx, promotion.ID, expired.ID); err != nil {
				return err
			}
			covered, err := repos.Promotions().ProductIDs(ctx, promotion.ID)
			if err != nil {
				return err
			}
			if err := repriceAll(ctx, repos, covered, promotion.ID); err != nil {
				return err
			}
			touched = append(touched, covered...)
			result.Expired++
			s.logger.Info("promotion expired", "promotion_id", promotion.ID, "products", len(covered))
		}

		activated, covered, err := s.activateDue(ctx, repos, expired.ID)
		if err != nil {
			return err
		}
		touched = append(touched, covered...)
		result.Activated = activated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Expired > 0 || result.Activated > 0 {
		s.afterWrite(ctx, touched)
	}
	return result, nil
}

// activateDue starts every scheduled promotion whose start date has passed.
// It returns how many started and the products they discount. One whose end
// date has also passed is expired without ever applying.
func (s *PromotionService) activateDue(ctx context.Context, repos repositories.Repositories, expiredStatusID string) (int, []string, error) {
	inactive, err := repos.Statuses().GetByName(ctx, models.StatusInactive)
	if err != nil {
		return 0, nil, err
	}
	active, err := repos.Statuses().GetByName(ctx, models.StatusActive)
	if err != nil {
		return 0, nil, err
	}
	now := s.now()
	due, err := repos.Promotions().ListDue(ctx, inactive.ID, now)
	if err != nil {
		return 0, nil, err
	}

	var (
		started int
		touched []string
	)
	for _, promotion := range due {
		var remaining int64
		if promotion.EndDate != nil {
			remaining = int64(promotion.EndDate.Sub(now) / time.Second)
		}
		if remaining <= 1 {
			if err := repos.Promotions().Expire(ctx, promotion.ID, expiredStatusID); err != nil {
				return 0, nil, err
			}
			s.logger.Info("scheduled promotion expired before start", "promotion_id", promotion.ID)
			continue
		}

		if err := repos.Promotions().Activate(ctx, promotion.ID, active.ID, remaining); err != nil {
			return 0, nil, err
		}
		covered, err := repos.Promotions().ProductIDs(ctx, promotion.ID)
		if err != nil {
			return 0, nil, err
		}
		if err := repriceAll(ctx, repos, covered, ""); err != nil {
			return 0, nil, err
		}
		started++
		touched = append(touched, covered...)
		s.logger.Info("promotion activated", "promotion_id", promotion.ID, "products", len(covered), "remaining_time", remaining)
	}
	return started, touched, nil
}

// apply validates in and copies it onto promotion with a fresh remaining
// time. A days promotion whose start date lies ahead is stored Inactive until
// Tick activates it.
func (s *PromotionService) apply(ctx context.Context, repos repositories.Repositories, promotion *models.Promotion, in PromotionInput) error {
	if in.Percentage < 1 || in.Percentage > 99 {
		return apperrors.ErrInvalidPercentage
	}
	if len(in.ProductIDs) == 0 && len(in.CategoryIDs) == 0 {
		return apperrors.ErrNoPromotionTarget
	}

	window := promotionWindow{
		DurationType: in.DurationType,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		StartHour:    in.StartHour,
		EndHour:      in.EndHour,
		StartMinute:  in.StartMinute,
		EndMinute:    in.EndMinute,
		StartSecond:  in.StartSecond,
		EndSecond:    in.EndSecond,
	}
	remaining, err := window.remainingTime(s.now())
	if err != nil {
		return err
	}

	products, err := repos.Products().GetByIDs(ctx, dedupe(in.ProductIDs))
	if err != nil {
		return err
	}
	if len(products) != len(dedupe(in.ProductIDs)) {
		return apperrors.ErrProductNotFound
	}

	categories := make([]models.Category, 0, len(in.CategoryIDs))
	for _, categoryID := range dedupe(in.CategoryIDs) {
		category, err := repos.Categories().GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		categories = append(categories, *category)
	}

	statusName := models.StatusActive
	scheduled := window.pending(s.now())
	if scheduled {
		statusName = models.StatusInactive
	}
	status, err := repos.Statuses().GetByName(ctx, statusName)
	if err != nil {
		return err
	}

	window.clearUnused()
	promotion.Name = in.Name
	promotion.Description = in.Description
	promotion.Percentage = in.Percentage
	promotion.DurationType = window.DurationType
	promotion.StartDate, promotion.EndDate = window.StartDate, window.EndDate
	promotion.StartHour, promotion.EndHour = window.StartHour, window.EndHour
	promotion.StartMinute, promotion.EndMinute = window.StartMinute, window.EndMinute
	promotion.StartSecond, promotion.EndSecond = window.StartSecond, window.EndSecond
	promotion.RemainingTime = remaining
	promotion.StatusID = status.ID
	promotion.Status = nil
	promotion.Active = !scheduled
	promotion.Products = products
	promotion.Categories = categories
	return nil
}

func (s *PromotionService) afterWrite(ctx context.Context, productIDs []string) {
	invalidateProducts(ctx, s.cache, s.logger, dedupe(productIDs)...)
	if err := s.cache.Delete(ctx, cache.DashboardKey); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", "error", err)
	}
}

// repriceAll recomputes the discounted price of every product in ids.
func repriceAll(ctx context.Context, repos repositories.Repositories, ids []string, excludePromotionID string) error {
	products, err := repos.Products().GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, product := range products {
		if err := repriceProduct(ctx, repos, product.ID, product.Price, excludePromotionID); err != nil {
			return err
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func union(a, b []string) []string {
	return dedupe(append(append([]string{}, a...), b...))
}
