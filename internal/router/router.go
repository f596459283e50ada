// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/elibest/inventory-backend/internal/config"
	"github.com/elibest/inventory-backend/internal/handlers"
	"github.com/elibest/inventory-backend/internal/middleware"
	"github.com/elibest/inventory-backend/internal/notify"
	"github.com/elibest/inventory-backend/internal/realtime"
	"github.com/elibest/inventory-backend/internal/services"
	"github.com/elibest/inventory-backend/internal/utils"
)

func Initialize(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	// Initialize collaborators
	notifier := notify.NewLogNotifier()
	feed := realtime.NewChangeFeed(rdb)

	authService := services.NewAuthService(
		services.NewGormAllowList(db),
		services.NewGormAccounts(db),
		services.NewRedisSessions(rdb),
		cfg,
	)
	inventoryService := services.NewInventoryService(db, feed, notifier)
	analyticsService := services.NewAnalyticsService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, notifier)
	streamHandler := handlers.NewStreamHandler(feed, inventoryService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.GeneralRateLimit(cfg.RateLimit))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit(cfg.RateLimit))
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(authService), authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(authService), authHandler.Me)
		}

		// Everything past the gate
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired(authService))
		{
			protected.GET("/categories", inventoryHandler.Categories)

			inventory := protected.Group("/inventory")
			{
				inventory.GET("", inventoryHandler.List)
				inventory.POST("", inventoryHandler.Insert)
				inventory.GET("/stream", streamHandler.Stream)
				inventory.POST("/batch", inventoryHandler.BatchSave)
				inventory.PUT("/:id", inventoryHandler.UpdateRow)
			}

			analytics := protected.Group("/analytics")
			{
				analytics.GET("/summary", analyticsHandler.Summary)
				analytics.GET("/trending", analyticsHandler.Trending)
			}
		}
	}

	return r
}
