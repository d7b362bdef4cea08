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

	"shopRecommender/app/echo-server/router"
	"shopRecommender/business/recommend"
	"shopRecommender/internal/middleware"
	"shopRecommender/internal/repository/memory"
	psqlRepo "shopRecommender/internal/repository/postgres"
	redisRepo "shopRecommender/internal/repository/redis"
	"shopRecommender/internal/rest"
	"shopRecommender/pkg/config"
	"shopRecommender/pkg/database"
	redisdb "shopRecommender/pkg/database/redis"
	"shopRecommender/pkg/logger"
	"shopRecommender/pkg/metrics"
	"shopRecommender/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
)

type repositories struct {
	activity recommend.ActivityRepository
	purchase recommend.PurchaseRepository
	product  recommend.ProductRepository
	config   recommend.ConfigRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting recommendation service", "version", cfg.App.Version, "driver", cfg.Database.Driver)

	utils.SetJWTSecret(cfg.JWT.SecretKey)
	metrics.Init()

	repos, err := initRepositories(cfg)
	if err != nil {
		logger.Fatal("Failed to initialise storage", "error", err)
	}

	// Optional session store
	var (
		tokenValidator middleware.TokenValidator
		redisClient    *goredis.Client
	)
	if cfg.Redis.Enabled {
		redisClient, err = redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		tokenValidator = redisRepo.NewTokenRepository(redisClient)
		logger.Info("Redis session validation enabled")
	}

	// Init service
	recommendService := recommend.NewService(
		repos.activity,
		repos.purchase,
		repos.product,
		repos.config,
		recommendConfig(cfg),
	)

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(recommendService, cfg.Server.RequestTimeout)
	adminHandler := rest.NewRecommendAdminHandler(repos.config)
	healthHandler := rest.NewHealthHandler("recommendations")

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Setup routes
	router.SetOpsRoutes(e, healthHandler)
	router.SetInternalRoutes(e, recommendationHandler)

	api := e.Group("/api/v1")
	router.SetRecommendationRoutes(api, recommendationHandler, middleware.OptionalAuth(tokenValidator))
	router.SetRecommendAdminRoutes(api, adminHandler, middleware.AuthRequired(tokenValidator), middleware.AdminOnly())

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
	if err := redisdb.CloseRedisClient(redisClient); err != nil {
		logger.Error("Redis close error", "error", err)
	}

	logger.Info("Server stopped")
}

func initRepositories(cfg *config.Config) (repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		store := memory.NewStore()
		memory.SeedDemo(store, time.Now())
		logger.Info("Using in-memory demo catalog")
		return repositories{activity: store, purchase: store, product: store, config: store}, nil
	}

	db, err := database.InitPostgres(cfg)
	if err != nil {
		return repositories{}, err
	}
	logger.Info("Database connected successfully")

	return repositories{
		activity: psqlRepo.NewActivityRepository(db),
		purchase: psqlRepo.NewOrdersRepository(db),
		product:  psqlRepo.NewProductRepository(db),
		config:   psqlRepo.NewRecommendConfigRepository(db),
	}, nil
}

// recommendConfig layers the environment settings over the engine defaults.
func recommendConfig(cfg *config.Config) recommend.Config {
	rc := recommend.DefaultConfig()
	rc.DefaultLimit = cfg.Recommend.DefaultLimit
	rc.MaxLimit = cfg.Recommend.MaxLimit
	rc.FetchTimeout = cfg.Recommend.FetchTimeout
	rc.ContentStrategy = cfg.Recommend.ContentStrategy
	rc.TrendingStrategy = cfg.Recommend.TrendingStrategy
	rc.TrendingWindow = time.Duration(cfg.Recommend.TrendingWindowDays) * 24 * time.Hour
	rc.NumVariants = cfg.Recommend.NumVariants
	return rc
}
