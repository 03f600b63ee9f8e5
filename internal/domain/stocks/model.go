// Package stocks provides the quantity mutation engine for stock records.
//
// A stock record holds two independent non-negative counters for one
// product (PLU) at one shop. All counter changes go through the Service,
// which enforces non-negativity under concurrent mutation via row-level
// locking at the storage boundary.
package stocks

// Field names one of the two counters on a stock record.
type Field string

const (
	FieldOnShelf  Field = "onShelf"
	FieldInOrders Field = "inOrders"
)

// Valid reports whether f names a known counter.
func (f Field) Valid() bool {
	return f == FieldOnShelf || f == FieldInOrders
}

// StockRecord represents the persisted counters for one (plu, shop) pair.
type StockRecord struct {
	// PLU references a product in the catalog
	PLU int64 `db:"plu" json:"plu"`

	// ShopID identifies the shop location
	ShopID int64 `db:"shop_id" json:"shopId"`

	// OnShelfQuantity is the on-shelf counter, never negative
	OnShelfQuantity int64 `db:"on_shelf_quantity" json:"onShelfQuantity"`

	// InOrdersQuantity is the in-orders counter, never negative
	InOrdersQuantity int64 `db:"in_orders_quantity" json:"inOrdersQuantity"`
}

// Counter returns the current value of the named counter.
func (r StockRecord) Counter(f Field) int64 {
	if f == FieldInOrders {
		return r.InOrdersQuantity
	}
	return r.OnShelfQuantity
}
