package stocks

import (
	"context"

	"stocktrack/internal/domain/filter"
)

// Filter narrows Find results. Nil bounds mean "no condition";
// range bounds are inclusive.
type Filter struct {
	PLU          *int64
	ShopID       *int64
	OnShelfFrom  *int64
	OnShelfTo    *int64
	InOrdersFrom *int64
	InOrdersTo   *int64
}

// Items translates the filter into generic filter conditions
// (column names follow the persisted layout).
func (f Filter) Items() []filter.Item {
	var items []filter.Item
	if f.PLU != nil {
		items = append(items, filter.Eq("plu", *f.PLU))
	}
	if f.ShopID != nil {
		items = append(items, filter.Eq("shop_id", *f.ShopID))
	}
	if f.OnShelfFrom != nil {
		items = append(items, filter.Gte("on_shelf_quantity", *f.OnShelfFrom))
	}
	if f.OnShelfTo != nil {
		items = append(items, filter.Lte("on_shelf_quantity", *f.OnShelfTo))
	}
	if f.InOrdersFrom != nil {
		items = append(items, filter.Gte("in_orders_quantity", *f.InOrdersFrom))
	}
	if f.InOrdersTo != nil {
		items = append(items, filter.Lte("in_orders_quantity", *f.InOrdersTo))
	}
	return items
}

// Repository defines storage operations for stock records.
//
// The store is the single mutable shared resource: every write goes
// through this API, no caller may read-modify-write counters directly.
type Repository interface {
	// Create persists a new stock record.
	// Returns apperror.CodeDuplicate if the (plu, shopId) key is taken and
	// apperror.CodePreconditionFailed if no product with the PLU exists.
	Create(ctx context.Context, record StockRecord) error

	// GetForUpdate returns the record with an exclusive row lock held until
	// the enclosing transaction ends. Must be called within an active
	// transaction. Returns apperror.CodeNotFound if the key is absent.
	GetForUpdate(ctx context.Context, plu, shopID int64) (StockRecord, error)

	// ApplyDelta atomically adds delta to the named counter and returns the
	// updated record. Blocks on a concurrently held row lock, so deltas are
	// serialized with in-flight decrements. Returns apperror.CodeNotFound
	// if the key is absent.
	ApplyDelta(ctx context.Context, plu, shopID int64, field Field, delta int64) (StockRecord, error)

	// Find returns all records matching the filter.
	Find(ctx context.Context, f Filter) ([]StockRecord, error)
}
