package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/KickLedger/kickledger_api/internal/cache"
	"github.com/KickLedger/kickledger_api/internal/config"
	"github.com/KickLedger/kickledger_api/internal/database"
	"github.com/KickLedger/kickledger_api/internal/handler"
	"github.com/KickLedger/kickledger_api/internal/match"
	"github.com/KickLedger/kickledger_api/internal/middleware"
	"github.com/KickLedger/kickledger_api/internal/repository"
	"github.com/KickLedger/kickledger_api/internal/service"
	"github.com/KickLedger/kickledger_api/internal/utils"
	"github.com/KickLedger/kickledger_api/internal/worker"
	"github.com/KickLedger/kickledger_api/pkg/ebay"
	"github.com/KickLedger/kickledger_api/pkg/stockx"
)

// main is the application entrypoint for the KickLedger API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting kickledger api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	tokenCache := cache.NewTokenCache(redisClient)

	// 4. Initialize marketplace clients
	stockxClient := stockx.NewClient(stockx.Config{
		BaseURL:      cfg.StockX.BaseURL,
		APIKey:       cfg.StockX.APIKey,
		ClientID:     cfg.StockX.ClientID,
		ClientSecret: cfg.StockX.ClientSecret,
	})
	ebayClient := ebay.NewClient(ebay.Config{
		BaseURL:      cfg.Ebay.BaseURL,
		ClientID:     cfg.Ebay.ClientID,
		ClientSecret: cfg.Ebay.ClientSecret,
	})

	// 5. Initialize repositories
	userRepo := repository.NewUserRepository(db)
	credRepo := repository.NewCredentialRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	logRepo := repository.NewDelistLogRepository(db)
	lockRepo := repository.NewLockRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)

	// 6. Initialize services
	authSvc := service.NewAuthService(userRepo)
	credSvc := service.NewCredentialService(credRepo, tokenCache, stockxClient, ebayClient)
	lockSvc := service.NewLockService(lockRepo, cfg.Worker.LockDuration)
	matcher := match.NewLinkMatcher(linkRepo)

	dispatcher := service.NewDelistDispatcher()
	dispatcher.Register(service.NewStockXDelister(stockxClient))
	dispatcher.Register(service.NewEbayDelister(ebayClient))
	log.Info().Msg("StockX and eBay delisters registered")

	delistSvc := service.NewDelistService(saleRepo, linkRepo, logRepo, matcher, dispatcher, credSvc, lockSvc)
	inventorySvc := service.NewInventoryService(inventoryRepo, saleRepo)
	syncSvc := service.NewSalesSyncService(saleRepo, credSvc, stockxClient, ebayClient, inventorySvc)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:     handler.NewHealthHandler(db),
		Auth:       handler.NewAuthHandler(authSvc),
		Credential: handler.NewCredentialHandler(credSvc),
		Delist:     handler.NewDelistHandler(delistSvc, logRepo),
		Link:       handler.NewLinkHandler(linkRepo),
		Sale:       handler.NewSaleHandler(saleRepo, syncSvc),
		Inventory:  handler.NewInventoryHandler(inventoryRepo),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewDelistWorker(delistSvc, saleRepo, cfg.Worker.DelistInterval).Start(ctx)
	go worker.NewSalesSyncWorker(syncSvc, credRepo, cfg.Worker.SalesSyncInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Credential *handler.CredentialHandler
	Delist     *handler.DelistHandler
	Link       *handler.LinkHandler
	Sale       *handler.SaleHandler
	Inventory  *handler.InventoryHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	router.POST("/v1/auth/register", handlers.Auth.Register)
	router.POST("/v1/auth/login", handlers.Auth.Login)

	// Everything below requires a logged-in user.
	api := router.Group("/v1")
	api.Use(jwtMiddleware.Handle())
	{
		api.POST("/credentials", handlers.Credential.Connect)

		api.GET("/delists", handlers.Delist.GetHistory)
		api.POST("/delists/run", handlers.Delist.RunNow)

		api.POST("/links", handlers.Link.Create)
		api.GET("/links", handlers.Link.List)
		api.GET("/links/:id", handlers.Link.Get)

		api.GET("/sales", handlers.Sale.List)
		api.POST("/sales/sync", handlers.Sale.SyncNow)

		api.POST("/inventory", handlers.Inventory.Create)
		api.GET("/inventory", handlers.Inventory.List)
		api.DELETE("/inventory/:id", handlers.Inventory.Delete)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
