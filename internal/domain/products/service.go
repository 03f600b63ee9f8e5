package products

import (
	"context"
	"fmt"
	"strings"

	"stocktrack/internal/core/apperror"
	"stocktrack/internal/domain/history"
	"stocktrack/pkg/logger"
)

// Service provides business operations for the product catalog.
type Service struct {
	repo     Repository
	notifier history.Notifier
}

// NewService creates a new product catalog service.
func NewService(repo Repository, notifier history.Notifier) *Service {
	if notifier == nil {
		notifier = history.Nop{}
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
	}
}

// CreateProduct adds a product to the catalog.
// PLU uniqueness is enforced by storage; a duplicate surfaces as
// apperror.CodeDuplicate, not a crash.
func (s *Service) CreateProduct(ctx context.Context, plu int64, name string) (Product, error) {
	if plu <= 0 {
		return Product{}, apperror.NewValidation("plu must be positive")
	}
	if strings.TrimSpace(name) == "" {
		return Product{}, apperror.NewValidation("name is required")
	}

	product := Product{PLU: plu, Name: name}
	if err := s.repo.Create(ctx, product); err != nil {
		return Product{}, err
	}

	logger.Info(ctx, "product created", "plu", plu)

	s.notifier.Notify(ctx, history.Event{
		Action: history.ActionCreateProduct,
		PLU:    plu,
	})

	return product, nil
}

// ListProducts returns catalog entries matching the filter.
func (s *Service) ListProducts(ctx context.Context, f ListFilter) ([]Product, error) {
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}
