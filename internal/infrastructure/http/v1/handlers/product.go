package handlers

import (
	"github.com/gin-gonic/gin"

	"stocktrack/internal/domain/products"
	"stocktrack/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	*BaseHandler
	service *products.Service
}

// NewProductHandler creates a new product catalog handler.
func NewProductHandler(base *BaseHandler, service *products.Service) *ProductHandler {
	return &ProductHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), req.PLU, req.Name)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromProduct(product))
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	filter := products.ListFilter{
		NameContains: c.Query("name"),
	}

	plu, ok := h.ParseInt64Query(c, "plu")
	if !ok {
		return
	}
	filter.PLU = plu

	items, err := h.service.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := make([]dto.ProductResponse, len(items))
	for i, p := range items {
		response[i] = dto.FromProduct(p)
	}

	h.OK(c, dto.ProductListResponse{Items: response})
}

// RegisterRoutes registers product catalog routes.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
}
