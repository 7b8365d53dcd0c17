// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"parkdesk-service/internal/config"
	"parkdesk-service/internal/db"
	authHandler "parkdesk-service/internal/handlers/auth"
	passHandler "parkdesk-service/internal/handlers/pass"
	revenueHandler "parkdesk-service/internal/handlers/revenue"
	sessionHandler "parkdesk-service/internal/handlers/session"
	wsHandler "parkdesk-service/internal/handlers/websocket"
	"parkdesk-service/internal/middleware"
	"parkdesk-service/internal/pkg/clock"
	"parkdesk-service/internal/pkg/token"
	"parkdesk-service/internal/repository/postgres"
	authService "parkdesk-service/internal/service/auth"
	passService "parkdesk-service/internal/service/pass"
	revenueService "parkdesk-service/internal/service/revenue"
	sessionService "parkdesk-service/internal/service/session"
	"parkdesk-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- Token Manager -----
	tokenManager, err := token.NewManager(s.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to build token manager: %w", err)
	}

	// ----- Clock -----
	clk := clock.Real{}

	// ----- Repositories -----
	sessionRepo := postgres.NewParkingSessionRepository(pool)
	passRepo := postgres.NewMonthlyPassRepository(pool)
	operatorRepo := postgres.NewOperatorRepository(pool)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	// ----- Services -----
	authSvc := authService.NewAuthService(operatorRepo, tokenManager, clk, logger)
	sessionSvc := sessionService.NewSessionService(sessionRepo, passRepo, clk, hub, logger)
	passSvc := passService.NewPassService(passRepo, clk, logger)
	reportCache := revenueService.NewReportCache(redisClient, logger)
	revenueSvc := revenueService.NewRevenueService(sessionRepo, passRepo, clk, reportCache, logger)

	// ----- Bootstrap desk operator -----
	if err := s.ensureOperator(ctx, authSvc); err != nil {
		logger.Error("failed to bootstrap desk operator", zap.Error(err))
	}

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authSvc, logger)
	sessionHandlerInst := sessionHandler.NewSessionHandler(sessionSvc)
	passHandlerInst := passHandler.NewPassHandler(passSvc)
	revenueHandlerInst := revenueHandler.NewRevenueHandler(revenueSvc)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:    authHandlerInst,
		SessionHandler: sessionHandlerInst,
		PassHandler:    passHandlerInst,
		RevenueHandler: revenueHandlerInst,
		WSHandler:      wsHandlerInst,
		AuthMiddleware: authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	log.Printf("parkdesk server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// ensureOperator creates the desk operator account if it doesn't exist.
func (s *Server) ensureOperator(ctx context.Context, svc *authService.AuthService) error {
	username := os.Getenv("DESK_OPERATOR_USERNAME")
	password := os.Getenv("DESK_OPERATOR_PASSWORD")
	fullName := os.Getenv("DESK_OPERATOR_NAME")

	if username == "" {
		username = "operator"
		s.logger.Warn("DESK_OPERATOR_USERNAME not set, using default", zap.String("username", username))
	}
	if password == "" {
		return fmt.Errorf("DESK_OPERATOR_PASSWORD not set")
	}
	if len(password) < 8 {
		return fmt.Errorf("desk operator password must be at least 8 characters")
	}
	if fullName == "" {
		fullName = "Desk Operator"
	}

	return svc.EnsureOperatorExists(ctx, username, password, fullName)
}
