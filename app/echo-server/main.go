package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gota/app/echo-server/router"
	"gota/business/cafe"
	"gota/business/ranking"
	"gota/internal/middleware"
	psqlRepo "gota/internal/repository/postgres"
	redisRepo "gota/internal/repository/redis"
	"gota/internal/rest"
	"gota/pkg/config"
	"gota/pkg/database"
	redisdb "gota/pkg/database/redis"
	"gota/pkg/logger"
	"gota/pkg/metrics"
	"gota/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Gota ranking API", "version", cfg.App.Version)

	utils.SetJWTSecret(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// view history degrades to no diversity stage when redis is down
	var historyRepo cafe.ViewHistoryRepository
	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, view history disabled", "error", err)
	} else {
		defer redisdb.CloseRedisClient(redisClient)
		historyRepo = redisRepo.NewViewHistoryRepository(redisClient, cfg.Ranking.ViewHistorySize, 24*time.Hour)
	}

	// Init repo
	cafeRepo := psqlRepo.NewCafeRepository(db)
	weightsRepo := psqlRepo.NewRankingWeightsRepository(db)
	eventRepo := psqlRepo.NewRankingEventRepository(db)

	// Init service
	weightsService := ranking.NewWeightsService(weightsRepo, ranking.DefaultWeights())
	cafeService := cafe.NewCafeService(cafeRepo, historyRepo, eventRepo, weightsService, cafe.Config{
		Profile:         cfg.Ranking.Profile,
		DefaultRadiusKm: cfg.Ranking.ListingRadiusKm,
	})

	// Init handler
	cafeHandler := rest.NewCafeHandler(cafeService)
	adminHandler := rest.NewRankingAdminHandler(weightsService, cfg.Ranking.Profile)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Trace())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, rest.HeaderSessionID},
	}))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupCafeRoutes(api, cafeHandler, cfg.Ranking.ViewRateLimit)
	router.SetupRankingAdminRoutes(api, adminHandler)
	router.SetupMetricsRoute(e)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
