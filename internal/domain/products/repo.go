package products

import (
	"context"

	"stocktrack/internal/domain/filter"
)

// ListFilter narrows List results. Zero values mean "no condition".
type ListFilter struct {
	// PLU filters by exact code
	PLU *int64

	// NameContains filters by case-insensitive substring match on name
	NameContains string
}

// Items translates the filter into generic filter conditions.
func (f ListFilter) Items() []filter.Item {
	var items []filter.Item
	if f.PLU != nil {
		items = append(items, filter.Eq("plu", *f.PLU))
	}
	if f.NameContains != "" {
		items = append(items, filter.ContainsFold("name", f.NameContains))
	}
	return items
}

// Repository defines storage operations for the product catalog.
type Repository interface {
	// Create persists a new product.
	// Returns apperror.CodeDuplicate if the PLU is already taken.
	Create(ctx context.Context, product Product) error

	// Exists reports whether a product with the given PLU exists.
	Exists(ctx context.Context, plu int64) (bool, error)

	// List returns products matching the filter.
	List(ctx context.Context, f ListFilter) ([]Product, error)
}
