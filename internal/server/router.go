package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/eol-ict/onlyoo-backend/internal/handlers"
	"github.com/eol-ict/onlyoo-backend/internal/middleware"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	MatrixHandler  *handlers.MatrixHandler
	QuoteHandler   *handlers.QuoteHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	api.POST("/auth/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.GET("/auth/me", cfg.AuthHandler.Me)
	// Matrix runtime (any authenticated role, training included)
	protected.GET("/matrix/runtime", cfg.MatrixHandler.Runtime)
	// Quotes
	protected.GET("/quotes", cfg.QuoteHandler.List)
	protected.POST("/quotes",
		cfg.AuthMiddleware.RequireRole(types.RoleAgent),
		cfg.QuoteHandler.Create)

	// Catalog management
	manage := protected.Group("/matrix")
	manage.Use(cfg.AuthMiddleware.RequireRole(types.RoleManager))
	manage.GET("/sections", cfg.MatrixHandler.ListSections)
	manage.POST("/sections", cfg.MatrixHandler.CreateSection)
	manage.PATCH("/sections/:id", cfg.MatrixHandler.UpdateSection)
	manage.DELETE("/sections/:id", cfg.MatrixHandler.DeleteSection)
	manage.POST("/choices", cfg.MatrixHandler.CreateChoice)
	manage.PATCH("/choices/:id", cfg.MatrixHandler.UpdateChoice)
	manage.DELETE("/choices/:id", cfg.MatrixHandler.DeleteChoice)
	manage.GET("/rules", cfg.MatrixHandler.ListRules)
	manage.POST("/rules", cfg.MatrixHandler.CreateRule)
	manage.DELETE("/rules/:id", cfg.MatrixHandler.DeleteRule)
	manage.GET("/alerts", cfg.MatrixHandler.ListAlerts)
	manage.POST("/alerts", cfg.MatrixHandler.CreateAlert)
	manage.PATCH("/alerts/:id", cfg.MatrixHandler.UpdateAlert)
	manage.DELETE("/alerts/:id", cfg.MatrixHandler.DeleteAlert)

	// Back-office review queue
	review := protected.Group("/quotes")
	review.Use(cfg.AuthMiddleware.RequireRole(types.RoleBackoffice))
	review.GET("/:id/preview", cfg.QuoteHandler.Preview)
	review.POST("/:id/send", cfg.QuoteHandler.Send)
	review.PUT("/:id/status", cfg.QuoteHandler.UpdateStatus)
	review.PUT("/:id/mark-sent", cfg.QuoteHandler.MarkSent)

	return router
}
