package main

import (
	"houserent-service/internal/handler"
	mid "houserent-service/internal/middleware"
	"houserent-service/internal/repository"
	"houserent-service/internal/service"
	"houserent-service/pkg/config"
	"houserent-service/pkg/database"
	"houserent-service/pkg/jwtutil"
	"houserent-service/pkg/logger"
	"houserent-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting houserent-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire repositories and services
	db := database.GetDB()
	houseRepo := repository.NewHouseRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	agentRepo := repository.NewAgentRepo(db)

	houseService := service.NewHouseService(houseRepo, categoryRepo, agentRepo,
		appConfig.Listing.DefaultPageSize, appConfig.Listing.MaxPageSize)
	agentService := service.NewAgentService(agentRepo, houseRepo)

	houseHandler := handler.NewHouseHandler(houseService, agentService)
	categoryHandler := handler.NewCategoryHandler(houseService)
	agentHandler := handler.NewAgentHandler(agentService)

	// Initialize Echo instance
	e := echo.New()
	e.Validator = handler.NewValidator()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(logger.Middleware())

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public listing routes
	e.GET("/api/houses", houseHandler.List)
	e.GET("/api/houses/latest", houseHandler.Latest)
	e.GET("/api/houses/:id", houseHandler.Details)
	e.GET("/api/categories", categoryHandler.List)

	// Authenticated house routes
	houseAPI := e.Group("/api/houses", mid.AuthMiddleware)
	houseAPI.GET("/mine", houseHandler.Mine)
	houseAPI.POST("", houseHandler.Create)
	houseAPI.PUT("/:id", houseHandler.Update)
	houseAPI.DELETE("/:id", houseHandler.Delete)
	houseAPI.POST("/:id/rent", houseHandler.Rent)
	houseAPI.POST("/:id/leave", houseHandler.Leave)

	// Category admin routes
	categoryAPI := e.Group("/api/categories", mid.AuthMiddleware)
	categoryAPI.POST("", categoryHandler.Create)
	categoryAPI.DELETE("/:id", categoryHandler.Delete)

	// Agent registry routes
	agentAPI := e.Group("/api/agents", mid.AuthMiddleware)
	agentAPI.POST("", agentHandler.Become)
	agentAPI.GET("/me", agentHandler.Me)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
