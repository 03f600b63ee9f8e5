// Package products provides the product catalog.
// A product is identified by its PLU code and is immutable after creation.
package products

// Product represents a catalog entry.
type Product struct {
	// PLU is the price look-up code, globally unique
	PLU int64 `db:"plu" json:"plu"`

	// Name is the display name
	Name string `db:"name" json:"name"`
}
