package routes

import (
	"net/http"

	"github.com/ak4shii/smart-parking-system/internal/config"
	"github.com/ak4shii/smart-parking-system/internal/delivery/http/handler"
	"github.com/ak4shii/smart-parking-system/internal/infrastructure/database/postgres"
	"github.com/ak4shii/smart-parking-system/internal/logger"
	"github.com/ak4shii/smart-parking-system/internal/middleware"
	"github.com/ak4shii/smart-parking-system/internal/realtime"
	"github.com/ak4shii/smart-parking-system/internal/usecase/peripheral"
	"github.com/ak4shii/smart-parking-system/internal/usecase/registry"
	"github.com/ak4shii/smart-parking-system/internal/usecase/workflow"

	"github.com/gin-gonic/gin"
)

// SetupRoutes builds the HTTP surface. Use cases are constructed by the
// caller because the MQTT dispatcher and the liveness sweeper share them.
func SetupRoutes(
	cfg *config.Config,
	db *postgres.DB,
	hub *realtime.Hub,
	registryService *registry.Service,
	workflowService *workflow.Service,
	peripheralService *peripheral.Service,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	entryLogHandler := handler.NewEntryLogHandler(workflowService)
	deviceHandler := handler.NewDeviceHandler(registryService)
	peripheralHandler := handler.NewPeripheralHandler(peripheralService)
	wsHandler := handler.NewWsHandler(hub)

	api := router.Group("/api")
	{
		entryLogHandler.RegisterRoutes(api)
		deviceHandler.RegisterRoutes(api)
		peripheralHandler.RegisterRoutes(api)
	}

	wsHandler.RegisterRoutes(router)

	logger.Info("All routes initialized")
	return router
}
