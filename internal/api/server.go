package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/api/handlers"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/api/middleware"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/application/service"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	service    *service.LedgerService
}

// NewServer creates a new API server.
func NewServer(cfg Config, svc *service.LedgerService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config:  cfg,
		router:  gin.New(),
		logger:  logger,
		service: svc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.Logging(s.logger))

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.GET("/health", healthHandler.Get)

	api := s.router.Group("/api")
	{
		// Transactions
		txHandler := handlers.NewTransactionsHandler(s.service)
		api.GET("/transactions", txHandler.List)
		api.GET("/transactions/:id", txHandler.Get)
		api.DELETE("/transactions/:id", txHandler.Delete)
		api.POST("/transactions/import", txHandler.Import)
		api.GET("/stats", txHandler.Stats)

		// Recurring patterns
		recHandler := handlers.NewRecurringHandler(s.service)
		api.GET("/recurring", recHandler.List)
		api.POST("/recurring/detect", recHandler.Detect)
		api.GET("/recurring/summary", recHandler.Summary)
		api.GET("/recurring/upcoming", recHandler.Upcoming)
		api.POST("/recurring/:id/confirm", recHandler.Confirm)
		api.PUT("/recurring/:id/active", recHandler.SetActive)

		// Reconciliation
		reconHandler := handlers.NewReconcileHandler(s.service)
		api.POST("/reconcile", reconHandler.Run)
		api.POST("/reconcile/accept", reconHandler.AcceptMatch)
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
