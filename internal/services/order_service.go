package services

import (
	"context"
	"log/slog"
	"time"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
	"gadgetstore/pkg/cache"
	"gadgetstore/pkg/rabbitmq"
)

// DeliveryInput is the shipping contact captured at checkout.
type DeliveryInput struct {
	FullName   string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Country    string
	Notes      string
}

// orderTransitions lists the statuses each order status may move to.
// Delivered and Cancelled are final.
var orderTransitions = map[string]map[string]bool{
	models.StatusPending: {
		models.StatusOutForDelivery: true,
		models.StatusDelivered:      true,
		models.StatusCancelled:      true,
	},
	models.StatusOutForDelivery: {
		models.StatusDelivered: true,
		models.StatusCancelled: true,
	},
}

// OrderService handles business logic related to orders.
type OrderService struct {
	store     repositories.Store
	cache     cache.Cache
	publisher EventPublisher
	logger    *slog.Logger
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(store repositories.Store, c cache.Cache, publisher EventPublisher, logger *slog.Logger) *OrderService {
	return &OrderService{
		store:     store,
		cache:     c,
		publisher: publisher,
		logger:    logger,
	}
}

// PlaceOrder turns the user's cart into one pending order per cart line.
// Stock is reserved and the cart emptied in the same transaction, so either
// every line is ordered or nothing changes.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, delivery DeliveryInput) ([]models.Order, error) {
	var created []models.Order
	err := s.store.Execute(ctx, func(repos repositories.Repositories) error {
		pending, err := repos.Statuses().GetByName(ctx, models.StatusPending)
		if err != nil {
			return err
		}

		items, err := repos.Cart().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperrors.ErrCartEmpty
		}

		for _, item := range items {
			product := item.Product
			if product == nil {
				return apperrors.ErrProductNotFound.WithDetails(item.ProductID)
			}
			if !product.Active {
				return apperrors.ErrProductInactive.WithDetails(product.Name)
			}
			if item.Quantity > product.Quantity {
				return apperrors.ErrInsufficientStock.WithDetails(product.Name)
			}

			order := models.Order{
				UserID:    userID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.EffectivePrice(),
				StatusID:  pending.ID,
			}
			if err := repos.Orders().Create(ctx, &order); err != nil {
				return err
			}
			if err := repos.Products().DecrementStock(ctx, product.ID, item.Quantity); err != nil {
				return err
			}
			info := &models.DeliveryInfo{
				OrderID:    order.ID,
				FullName:   delivery.FullName,
				Phone:      delivery.Phone,
				Address:    delivery.Address,
				City:       delivery.City,
				PostalCode: delivery.PostalCode,
				Country:    delivery.Country,
				Notes:      delivery.Notes,
			}
			if err := repos.Orders().CreateDeliveryInfo(ctx, info); err != nil {
				return err
			}
			order.DeliveryInfo = info
			order.Status = pending
			order.Product = product
			created = append(created, order)
		}

		return repos.Cart().Clear(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, len(created))
	for _, order := range created {
		productIDs = append(productIDs, order.ProductID)
		publish(ctx, s.publisher, s.logger, rabbitmq.RoutingOrderCreated, orderEvent(&order, models.StatusPending))
	}
	invalidateProducts(ctx, s.cache, s.logger, productIDs...)
	s.invalidateDashboard(ctx)

	s.logger.Info("order placed", "user_id", userID, "lines", len(created))
	return created, nil
}

// ListForUser returns the orders of userID, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.Orders().ListByUser(ctx, userID)
}

// GetForUser returns an order only when it belongs to userID.
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.ErrOrderNotFound
	}
	return order, nil
}

// Get returns any order.
func (s *OrderService) Get(ctx context.Context, orderID string) (*models.Order, error) {
	return s.store.Orders().GetByID(ctx, orderID)
}

// ListAll returns every order, optionally only those in statusName.
func (s *OrderService) ListAll(ctx context.Context, statusName string) ([]models.Order, error) {
	statusID := ""
	if statusName != "" {
		status, err := s.store.Statuses().GetByName(ctx, statusName)
		if err != nil {
			return nil, err
		}
		statusID = status.ID
	}
	return s.store.Orders().List(ctx, statusID)
}

// UpdateStatus moves an order to statusName. Cancelling returns the ordered
// quantity to stock.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, statusName string) (*models.Order, error) {
	return s.transition(ctx, orderID, statusName, func(*models.Order) error { return nil })
}

// Cancel lets a customer cancel one of their own orders while it is pending.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID string) (*models.Order, error) {
	return s.transition(ctx, orderID, models.StatusCancelled, func(order *models.Order) error {
		if order.UserID != userID {
			return apperrors.ErrOrderNotFound
		}
		if order.Status == nil || order.Status.Name != models.StatusPending {
			if order.Status != nil && order.Status.Name == models.StatusCancelled {
				return apperrors.ErrOrderCancelled
			}
			return apperrors.ErrInvalidTransition.WithDetails("only pending orders can be cancelled")
		}
		return nil
	})
}

func (s *OrderService) transition(ctx context.Context, orderID, statusName string, check func(*models.Order) error) (*models.Order, error) {
	var (
		order *models.Order
		from  string
	)
	err := s.store.Execute(ctx, func(repos repositories.Repositories) error {
		var err error
		order, err = repos.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := check(order); err != nil {
			return err
		}

		if order.Status != nil {
			from = order.Status.Name
		}
		if from == models.StatusCancelled {
			return apperrors.ErrOrderCancelled
		}
		if !orderTransitions[from][statusName] {
			return apperrors.ErrInvalidTransition.WithDetails(from + " -> " + statusName)
		}

		target, err := repos.Statuses().GetByName(ctx, statusName)
		if err != nil {
			return err
		}
		if err := repos.Orders().UpdateStatus(ctx, order.ID, target.ID); err != nil {
			return err
		}
		if statusName == models.StatusCancelled {
			if err := repos.Products().IncrementStock(ctx, order.ProductID, order.Quantity); err != nil {
				return err
			}
		}

		order, err = repos.Orders().GetByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if statusName == models.StatusCancelled {
		invalidateProducts(ctx, s.cache, s.logger, order.ProductID)
	}
	s.invalidateDashboard(ctx)
	publish(ctx, s.publisher, s.logger, rabbitmq.RoutingOrderStatusChanged, orderEvent(order, statusName))

	s.logger.Info("order status changed", "order_id", order.ID, "from", from, "to", statusName)
	return order, nil
}

func (s *OrderService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.DashboardKey); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", "error", err)
	}
}

func orderEvent(order *models.Order, status string) rabbitmq.OrderEvent {
	return rabbitmq.OrderEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
		Total:     roundMoney(order.Total()),
		Status:    status,
		At:        time.Now(),
	}
}
