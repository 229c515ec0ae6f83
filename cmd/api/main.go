package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hitchly/hitchly-backend/internal/config"
	"github.com/hitchly/hitchly-backend/internal/handler"
	"github.com/hitchly/hitchly-backend/internal/middleware"
	"github.com/hitchly/hitchly-backend/internal/repository/postgres"
	"github.com/hitchly/hitchly-backend/internal/repository/storage"
	"github.com/hitchly/hitchly-backend/internal/service"
	"github.com/hitchly/hitchly-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	weddingRepo := postgres.NewWeddingRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	lineItemRepo := postgres.NewBudgetLineItemRepository(pool)
	summaryRepo := postgres.NewBudgetSummaryRepository(pool)
	portalTokenRepo := postgres.NewPortalTokenRepository(pool)

	// Document storage is optional; uploads are disabled when it fails to
	// initialize
	var documentService *service.DocumentService
	if cfg.S3.AccessKeyID != "" || cfg.S3.Endpoint != "" {
		docRepo, err := storage.NewS3DocumentRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Warn().Err(err).Msg("Document storage unavailable, image uploads disabled")
		} else {
			documentService = service.NewDocumentService(docRepo)
			log.Info().Str("bucket", cfg.S3.Bucket).Msg("Document storage initialized")
		}
	}

	// WebSocket hub for workspace event broadcasting; the hub is also the
	// event publisher the services write to
	hub := websocket.NewHub()
	var publisher websocket.EventPublisher = hub

	// Initialize services
	authService := service.NewAuthService(userRepo, workspaceRepo)
	clientService := service.NewClientService(clientRepo)
	weddingService := service.NewWeddingService(weddingRepo, clientRepo)
	balanceService := service.NewBalanceService(vendorRepo, weddingRepo, publisher)
	vendorService := service.NewVendorService(vendorRepo, weddingRepo, balanceService, publisher)
	lineItemService := service.NewBudgetLineItemService(lineItemRepo, clientRepo, publisher)
	summaryService := service.NewBudgetSummaryService(lineItemRepo, summaryRepo, clientRepo, publisher)
	portalTokenService := service.NewPortalTokenService(portalTokenRepo, clientRepo)

	// Create workspace provider adapter for auth middleware
	workspaceProvider := &workspaceProviderAdapter{authService: authService}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, workspaceProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Portal token auth and per-token rate limiting
	portalAuthMiddleware := middleware.NewPortalAuthMiddleware(portalTokenService)
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// WebSocket JWT validator shares the workspace lookup
	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, workspaceProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket JWT validator")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	clientHandler := handler.NewClientHandler(clientService)
	weddingHandler := handler.NewWeddingHandler(weddingService)
	vendorHandler := handler.NewVendorHandler(vendorService, balanceService, documentService)
	budgetHandler := handler.NewBudgetHandler(lineItemService, summaryService)
	portalTokenHandler := handler.NewPortalTokenHandler(portalTokenService)
	portalHandler := handler.NewPortalHandler(clientService, weddingService, vendorService, balanceService, lineItemService, summaryService)
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, portalAuthMiddleware, rateLimiter,
		authHandler, clientHandler, weddingHandler, vendorHandler, budgetHandler,
		portalTokenHandler, portalHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// workspaceProviderAdapter adapts AuthService to middleware.WorkspaceProvider
type workspaceProviderAdapter struct {
	authService *service.AuthService
}

// GetWorkspaceByAuth0ID implements middleware.WorkspaceProvider
func (a *workspaceProviderAdapter) GetWorkspaceByAuth0ID(auth0ID string) (int32, error) {
	workspace, err := a.authService.GetWorkspaceByAuth0ID(auth0ID)
	if err != nil {
		return 0, err
	}
	return workspace.ID, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
