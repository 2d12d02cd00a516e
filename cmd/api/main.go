// Package main is the entry point for the shop API.
package main

import (
	"fmt"
	"log"

	"github.com/barahweb/shop-api/internal/config"
	"github.com/barahweb/shop-api/internal/handlers"
	"github.com/barahweb/shop-api/internal/health"
	"github.com/barahweb/shop-api/internal/metrics"
	"github.com/barahweb/shop-api/internal/repository"
	"github.com/barahweb/shop-api/internal/routes"
	"github.com/barahweb/shop-api/internal/service"
	"github.com/barahweb/shop-api/pkg/database"
	"github.com/barahweb/shop-api/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// @title Shop API
// @version 1.0
// @description User authentication and product catalog service
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Initialize Redis
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)

	// Initialize services
	jwtService, err := service.NewJWTService(
		cfg.JWTSecret,
		cfg.JWTRefreshSecret,
		cfg.JWTAccessExpiry,
		cfg.JWTRefreshExpiry,
	)
	if err != nil {
		log.Fatal("Failed to create JWT service: ", err)
	}
	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	authService := service.NewAuthService(userRepo, jwtService, hasher)
	catalogService := service.NewCatalogService(productRepo, redisClient, cfg.CacheTTL)
	uploadService, err := service.NewUploadService(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize upload storage: ", err)
	}

	// Metrics and health
	m := metrics.New(prometheus.DefaultRegisterer)
	healthAgg := health.NewAggregator()
	healthAgg.RegisterDatabase(db)
	healthAgg.RegisterRedis(redisClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, m)
	itemHandler := handlers.NewItemHandler(catalogService, uploadService)

	// Setup router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	routes.Setup(router, routes.Deps{
		Config:     cfg,
		Auth:       authHandler,
		Items:      itemHandler,
		JWTService: jwtService,
		UserRepo:   userRepo,
		Metrics:    m,
		HealthAgg:  healthAgg,
	})

	// Start server
	log.Printf("Starting shop API on port %s", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
