package handlers

import (
	"github.com/gin-gonic/gin"

	"stocktrack/internal/domain/stocks"
	"stocktrack/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for stock records.
type StockHandler struct {
	*BaseHandler
	service *stocks.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stocks.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /stocks
func (h *StockHandler) Create(c *gin.Context) {
	var req dto.CreateStocksRequest
	if !h.BindJSON(c, &req) {
		return
	}

	record, err := h.service.CreateStocks(c.Request.Context(),
		req.PLU, req.ShopID, req.OnShelfQuantity, req.InOrdersQuantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromStockRecord(record))
}

// adjust produces a handler applying the given field and direction.
func (h *StockHandler) adjust(field stocks.Field, direction stocks.Direction) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.AdjustStocksRequest
		if !h.BindJSON(c, &req) {
			return
		}

		record, err := h.service.Adjust(c.Request.Context(),
			field, direction, req.PLU, req.ShopID, req.Quantity)
		if err != nil {
			h.Error(c, err)
			return
		}

		h.OK(c, dto.FromStockRecord(record))
	}
}

// List handles GET /stocks
func (h *StockHandler) List(c *gin.Context) {
	var filter stocks.Filter

	for _, bind := range []struct {
		param string
		dest  **int64
	}{
		{"plu", &filter.PLU},
		{"shopId", &filter.ShopID},
		{"onShelfFrom", &filter.OnShelfFrom},
		{"onShelfTo", &filter.OnShelfTo},
		{"inOrdersFrom", &filter.InOrdersFrom},
		{"inOrdersTo", &filter.InOrdersTo},
	} {
		val, ok := h.ParseInt64Query(c, bind.param)
		if !ok {
			return
		}
		*bind.dest = val
	}

	records, err := h.service.GetStocks(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := make([]dto.StockResponse, len(records))
	for i, r := range records {
		response[i] = dto.FromStockRecord(r)
	}

	h.OK(c, dto.StockListResponse{Items: response})
}

// RegisterRoutes registers stock routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.POST("/on-shelf/increment", h.adjust(stocks.FieldOnShelf, stocks.DirectionIncrement))
	rg.POST("/on-shelf/decrement", h.adjust(stocks.FieldOnShelf, stocks.DirectionDecrement))
	rg.POST("/in-orders/increment", h.adjust(stocks.FieldInOrders, stocks.DirectionIncrement))
	rg.POST("/in-orders/decrement", h.adjust(stocks.FieldInOrders, stocks.DirectionDecrement))
}
