// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"metatype/internal/domain/typedef"
	"metatype/internal/infrastructure/http/v1/handlers"
	"metatype/internal/infrastructure/http/v1/middleware"
	"metatype/internal/infrastructure/storage/postgres"
	"metatype/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// APIKeyValidator for service account authentication (optional)
	APIKeyValidator middleware.APIKeyValidator

	// TypeDefService serves type definitions and value operations
	TypeDefService *typedef.Service

	// AdminRole guards mutating type endpoints when non-empty
	AdminRole string
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

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()
	typeHandler := handlers.NewTypeDefHandler(baseHandler, cfg.TypeDefService)

	// API v1 (protected)
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTValidator, cfg.APIKeyValidator))

	types := api.Group("/types")
	{
		types.GET("", typeHandler.List)
		types.GET("/:name", typeHandler.Get)

		// Value operations
		types.POST("/:name/format", typeHandler.Format)
		types.POST("/:name/parse", typeHandler.Parse)
		types.POST("/:name/validate", typeHandler.Validate)
	}

	// Mutating endpoints may require an admin role.
	mutating := api.Group("")
	if cfg.AdminRole != "" {
		mutating.Use(middleware.RequireRole(cfg.AdminRole))
	}
	{
		mutating.POST("/types", typeHandler.Create)
		mutating.PUT("/types/:name", typeHandler.Update)
		mutating.DELETE("/types/:name", typeHandler.Delete)
		mutating.PUT("/settings/locale", typeHandler.SetLocale)
	}

	return router
}
