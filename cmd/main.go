package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/chroniclecms/chronicle/config"
	"github.com/chroniclecms/chronicle/internal/constants"
	"github.com/chroniclecms/chronicle/internal/docs"
	"github.com/chroniclecms/chronicle/internal/handler"
	"github.com/chroniclecms/chronicle/internal/middleware"
	"github.com/chroniclecms/chronicle/internal/repository"
	"github.com/chroniclecms/chronicle/internal/router"
	"github.com/chroniclecms/chronicle/internal/search"
	"github.com/chroniclecms/chronicle/internal/service"
	"github.com/chroniclecms/chronicle/pkg/database"
	"github.com/chroniclecms/chronicle/pkg/health"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"github.com/chroniclecms/chronicle/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	// Initialize database with standardized pattern
	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	// Run auto migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	// Seed initial data
	if err := database.Seed(db); err != nil {
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
		// Don't fail - seed data may already exist
	}

	// Composite indexes AutoMigrate does not cover
	if err := database.OptimizedIndexes(db); err != nil {
		logger.GetLogger().Warn("Failed to create optimized indexes", zap.Error(err))
	}

	// Initialize Redis client
	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Repositories
	pageRepo := repository.NewPageRepository(db)
	siteRepo := repository.NewSiteRepository(db)

	// Search backend for the ?search= parameter
	searchBackend, err := search.NewBackend(config.API.SearchBackend, redisClient.Raw())
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize search backend",
			zap.String("backend", config.API.SearchBackend),
			zap.Error(err),
		)
	}

	// Services
	pageService := service.NewPageService(pageRepo, searchBackend, config.API)
	cacheService := service.NewCacheService(redisClient, config.API)
	searchIndexService := service.NewSearchIndexService(pageRepo, redisClient, config.API.SearchBackend)
	authService := service.NewAdminAuthService(config.Auth)

	// Background health monitor feeding /api/health
	monitor := health.NewMonitor(30*time.Second, logger.GetLogger())
	monitor.RegisterDatabaseChecker("database", db)
	monitor.RegisterRedisChecker("redis", redisClient)
	monitor.Start()
	defer monitor.Stop()

	docsRenderer, err := docs.NewRenderer()
	if err != nil {
		logger.GetLogger().Fatal("Failed to parse docs template", zap.Error(err))
	}

	// Handlers
	pagesHandler := handler.NewPagesHandler(pageService, cacheService)
	adminHandler := handler.NewAdminPagesHandler(pageService, searchIndexService, cacheService)
	cacheHandler := handler.NewCacheHandler(cacheService)
	healthHandler := handler.NewHealthHandler(monitor)
	docsHandler := handler.NewDocsHandler(pageService, docsRenderer)

	// Initialize middleware
	validationMiddleware := middleware.NewValidationMiddleware()
	adminAuthMiddleware := middleware.NewAdminAuthMiddleware(authService)
	siteResolver := middleware.NewSiteResolverMiddleware(siteRepo)

	r := router.NewRouter(
		pagesHandler,
		adminHandler,
		cacheHandler,
		healthHandler,
		docsHandler,

		validationMiddleware,
		adminAuthMiddleware,
		siteResolver,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
