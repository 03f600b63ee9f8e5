// Package dto defines request and response shapes for HTTP API v1.
package dto

import "stocktrack/internal/domain/products"

// CreateProductRequest is the body for POST /products.
type CreateProductRequest struct {
	PLU  int64  `json:"plu" binding:"required,gt=0"`
	Name string `json:"name" binding:"required"`
}

// ProductResponse is the API shape of a catalog entry.
type ProductResponse struct {
	PLU  int64  `json:"plu"`
	Name string `json:"name"`
}

// FromProduct converts a domain product.
func FromProduct(p products.Product) ProductResponse {
	return ProductResponse{
		PLU:  p.PLU,
		Name: p.Name,
	}
}

// ProductListResponse wraps a product listing.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}
