// internal/app/router.go
package app

import (
	authHandler "parkdesk-service/internal/handlers/auth"
	passHandler "parkdesk-service/internal/handlers/pass"
	revenueHandler "parkdesk-service/internal/handlers/revenue"
	sessionHandler "parkdesk-service/internal/handlers/session"
	wsHandler "parkdesk-service/internal/handlers/websocket"
	"parkdesk-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	SessionHandler *sessionHandler.SessionHandler
	PassHandler    *passHandler.PassHandler
	RevenueHandler *revenueHandler.RevenueHandler
	WSHandler      *wsHandler.WebSocketHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Auth ====================
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Parking Sessions ====================
	sessions := api.Group("/sessions")
	sessions.Use(h.AuthMiddleware.Auth())
	{
		sessions.POST("/entry", h.SessionHandler.RegisterEntry)
		sessions.POST("/exit", h.SessionHandler.ProcessExit)
		sessions.GET("", h.SessionHandler.ListRecords)
		sessions.GET("/parked", h.SessionHandler.ListParked)
		sessions.GET("/occupancy", h.SessionHandler.Occupancy)
	}

	// ==================== Monthly Passes ====================
	passes := api.Group("/passes")
	passes.Use(h.AuthMiddleware.Auth())
	{
		passes.POST("", h.PassHandler.SellPass)
		passes.GET("", h.PassHandler.ListPasses)
		passes.GET("/summary", h.PassHandler.Summary)
		passes.POST("/expire-lapsed", h.PassHandler.ExpireLapsed)
	}

	// ==================== Revenue ====================
	revenue := api.Group("/revenue")
	revenue.Use(h.AuthMiddleware.Auth())
	{
		revenue.GET("/window", h.RevenueHandler.GetCustomWindow)
		revenue.GET("/:window", h.RevenueHandler.GetNamedWindow)
	}
}
