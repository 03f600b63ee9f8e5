package dto

import "stocktrack/internal/domain/stocks"

// CreateStocksRequest is the body for POST /stocks.
// Initial quantities may be zero but never negative.
type CreateStocksRequest struct {
	PLU              int64 `json:"plu" binding:"required,gt=0"`
	ShopID           int64 `json:"shopId" binding:"required,gt=0"`
	OnShelfQuantity  int64 `json:"onShelfQuantity" binding:"gte=0"`
	InOrdersQuantity int64 `json:"inOrdersQuantity" binding:"gte=0"`
}

// AdjustStocksRequest is the body for the increment/decrement endpoints.
type AdjustStocksRequest struct {
	PLU      int64 `json:"plu" binding:"required,gt=0"`
	ShopID   int64 `json:"shopId" binding:"required,gt=0"`
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}

// StockResponse is the API shape of a stock record.
type StockResponse struct {
	PLU              int64 `json:"plu"`
	ShopID           int64 `json:"shopId"`
	OnShelfQuantity  int64 `json:"onShelfQuantity"`
	InOrdersQuantity int64 `json:"inOrdersQuantity"`
}

// FromStockRecord converts a domain stock record.
func FromStockRecord(r stocks.StockRecord) StockResponse {
	return StockResponse{
		PLU:              r.PLU,
		ShopID:           r.ShopID,
		OnShelfQuantity:  r.OnShelfQuantity,
		InOrdersQuantity: r.InOrdersQuantity,
	}
}

// StockListResponse wraps a stock listing.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
}
