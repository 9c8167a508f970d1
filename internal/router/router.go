package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "khata/docs" // registers the OpenAPI document
	"khata/internal/config"
	"khata/internal/domain"
	"khata/internal/handler"
	"khata/internal/logger"
	"khata/internal/middleware"
	"khata/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Series        *handler.SeriesHandler
	Documents     *handler.DocumentHandler
	Allocations   *handler.AllocationHandler
	Jurisdictions *handler.JurisdictionHandler
	Health        *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, log *logger.Logger, authSvc service.AuthService, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Every API route is tenant scoped by the bearer token.
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(authSvc))
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	series := v1.Group("/series")
	series.GET("", h.Series.List)
	series.GET("/:id", h.Series.GetByID)
	series.GET("/:id/preview", h.Series.Preview)
	series.GET("/:id/history", h.Series.ListHistory)
	series.GET("/:id/history/export", h.Series.ExportHistory)
	series.POST("", adminOnly, h.Series.Create)
	series.PUT("/:id", adminOnly, h.Series.Update)
	series.POST("/:id/default", adminOnly, h.Series.SetDefault)
	series.DELETE("/:id", adminOnly, h.Series.Delete)

	docs := v1.Group("/documents")
	docs.POST("/totals", h.Documents.ComputeTotals)
	docs.POST("", h.Documents.Create)
	docs.GET("", h.Documents.List)
	docs.GET("/:id", h.Documents.GetByID)
	docs.PUT("/:id/items", h.Documents.ReplaceItems)
	docs.PUT("/:id/entries", h.Documents.ReplaceEntries)
	docs.POST("/:id/number", h.Documents.AssignNumber)
	docs.POST("/:id/post", h.Documents.Post)
	docs.POST("/:id/cancel", h.Documents.Cancel)

	v1.POST("/allocations", h.Allocations.Allocate)
	v1.GET("/jurisdictions", h.Jurisdictions.List)
	v1.POST("/jurisdictions/reload", adminOnly, h.Jurisdictions.Reload)

	return r
}
