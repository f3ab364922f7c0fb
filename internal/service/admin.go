package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"smartcart/internal/models"
	"smartcart/internal/repo"
	"smartcart/internal/transport"
)

type AdminService struct {
	Repo *repo.GormRepo
}

func (s *AdminService) ListUsers(ctx context.Context) ([]transport.UserView, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]transport.UserView, len(users))
	for i, u := range users {
		views[i] = transport.UserView{ID: u.ID, Email: u.Email, Role: u.Role}
	}
	return views, nil
}

// UpdateUserRole checks the role against the closed enum before it touches
// the store.
func (s *AdminService) UpdateUserRole(ctx context.Context, userID uint, rawRole string) error {
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return fmt.Errorf("%w: %q is not a role", ErrValidation, rawRole)
	}

	err = s.Repo.UpdateUserRole(ctx, userID, role)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return err
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, orderID uint, rawStatus string) error {
	status, err := models.ParseOrderStatus(rawStatus)
	if err != nil {
		return fmt.Errorf("%w: %q is not an order status", ErrValidation, rawStatus)
	}

	err = s.Repo.UpdateOrderStatus(ctx, orderID, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	return err
}

func (s *AdminService) OrderStatistics(ctx context.Context) (*transport.OrderStatistics, error) {
	return s.Repo.OrderStatistics(ctx)
}
