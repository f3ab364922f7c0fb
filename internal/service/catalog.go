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
	"smartcart/internal/search"
	"smartcart/internal/transport"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
	Index    *search.Index
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return product, err
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	prod := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}

	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		return nil, err
	}

	s.Index.IndexProduct(ctx, &prod)
	s.publish(ctx, events.TypeProductCreated, &prod)
	return &prod, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, req transport.UpdateProductRequest, id uint) (*models.Product, error) {
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	prod, err := s.Repo.UpdateProduct(ctx, req, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	s.Index.IndexProduct(ctx, prod)
	s.publish(ctx, events.TypeProductUpdated, prod)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	err := s.Repo.DeleteProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	s.Index.DeleteProduct(ctx, id)
	s.publish(ctx, events.TypeProductDeleted, &models.Product{ID: id})
	return nil
}

// Search queries the Elasticsearch index. ErrSearchUnavailable means the
// deployment runs without search configured.
var ErrSearchUnavailable = errors.New("search unavailable")

func (s *CatalogService) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if s.Index == nil {
		return 0, nil, ErrSearchUnavailable
	}
	return s.Index.Search(ctx, query, from, size)
}

func (s *CatalogService) publish(ctx context.Context, eventType string, prod *models.Product) {
	payload := map[string]any{
		"product_id": prod.ID,
		"name":       prod.Name,
	}
	if err := s.Producer.PublishEvent(ctx, events.TopicProducts, fmt.Sprint(prod.ID), eventType, payload); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "type", eventType, "error", err)
	}
}
