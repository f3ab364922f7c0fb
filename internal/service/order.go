package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"smartcart/internal/events"
	"smartcart/internal/logging"
	"smartcart/internal/models"
	"smartcart/internal/repo"
	"smartcart/internal/transport"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

// PlaceOrder validates the line items and runs the placement transaction.
// The stored total is always reproducible as the sum of the snapshot
// prices times quantities of the order's own items.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place_order", "user_id", userID)

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}
	for _, item := range req.Items {
		if item.ProductID == 0 {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if item.Quantity == 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
	}

	order, err := s.Repo.PlaceOrder(ctx, userID, req.Items)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("place_order_failed", "reason", "unknown product")
			return nil, fmt.Errorf("%w: unknown product in order", ErrNotFound)
		}
		l.Error("place_order_failed", "error", err)
		return nil, err
	}

	l.Info("place_order_success", "order_id", order.ID, "total", order.TotalAmount)

	payload := map[string]any{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.TotalAmount,
	}
	if err := s.Producer.PublishEvent(ctx, events.TopicOrders, fmt.Sprint(order.ID), events.TypeOrderCreated, payload); err != nil {
		l.Error("kafka publish failed", "type", events.TypeOrderCreated, "error", err)
	}

	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID)
}

// GetOrder returns one of the user's own orders with its items. Asking for
// another user's order reports not found rather than forbidden.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (*transport.OrderView, error) {
	order, items, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}

	return &transport.OrderView{Order: *order, Items: items}, nil
}
