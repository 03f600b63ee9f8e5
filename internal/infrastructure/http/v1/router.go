// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"stocktrack/internal/domain/products"
	"stocktrack/internal/domain/stocks"
	"stocktrack/internal/infrastructure/http/v1/handlers"
	"stocktrack/internal/infrastructure/http/v1/middleware"
	"stocktrack/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (used by readiness checks)
	Pool *pgxpool.Pool

	// Logger for request logging
	Logger *logger.Logger

	// ProductService is the product catalog service
	ProductService *products.Service

	// StockService is the quantity mutation engine
	StockService *stocks.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		productHandler := handlers.NewProductHandler(base, cfg.ProductService)
		productHandler.RegisterRoutes(apiV1.Group("/products"))

		stockHandler := handlers.NewStockHandler(base, cfg.StockService)
		stockHandler.RegisterRoutes(apiV1.Group("/stocks"))
	}

	return router
}
