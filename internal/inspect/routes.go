package inspect

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jroosing/cdns/internal/config"
	"github.com/jroosing/cdns/internal/inspect/handlers"
	"github.com/jroosing/cdns/internal/inspect/middleware"
)

// registerRoutes wires the inspection API onto r.
//
// Swagger annotations live on the handlers in internal/inspect/handlers.
// No generated spec package is imported here, so /swagger serves the
// Swagger UI shell without an API definition.
func registerRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	if cfg != nil && cfg.Inspect.APIKey != "" {
		api.Use(middleware.RequireAPIKey(cfg.Inspect.APIKey))
	}

	api.GET("/health", h.Health)
	api.GET("/stats", h.Stats)
	api.GET("/file", h.File)
	api.GET("/blocks", h.Blocks)
	api.GET("/blocks/:index", h.Block)
}
