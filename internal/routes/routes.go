// Package routes defines HTTP routes for the shop API.
package routes

import (
	"net/http"

	"github.com/barahweb/shop-api/docs"
	"github.com/barahweb/shop-api/internal/config"
	"github.com/barahweb/shop-api/internal/handlers"
	"github.com/barahweb/shop-api/internal/health"
	"github.com/barahweb/shop-api/internal/metrics"
	"github.com/barahweb/shop-api/internal/middleware"
	"github.com/barahweb/shop-api/internal/models"
	"github.com/barahweb/shop-api/internal/repository"
	"github.com/barahweb/shop-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps bundles everything route setup needs.
type Deps struct {
	Config     *config.Config
	Auth       *handlers.AuthHandler
	Items      *handlers.ItemHandler
	JWTService service.JWTService
	UserRepo   repository.UserRepository
	Metrics    *metrics.Metrics
	HealthAgg  *health.Aggregator
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, deps Deps) {
	router.Use(middleware.Security(middleware.SecurityConfig{
		AllowedOrigins: deps.Config.AllowedOrigins,
	}))
	router.Use(deps.Metrics.Handler())

	// Service banner
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Shop API",
			"version": "1.0",
		})
	})

	// Health check
	router.GET("/health", deps.HealthAgg.Handler())
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authenticate := middleware.Authenticate(deps.JWTService, deps.UserRepo)
	optionalAuth := middleware.OptionalAuthenticate(deps.JWTService, deps.UserRepo)
	adminOnly := middleware.Authorize(models.RoleAdmin)

	// Auth routes
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/refresh-token", deps.Auth.RefreshToken)
		auth.GET("/check", optionalAuth, deps.Auth.CheckAuth)

		auth.GET("/profile", authenticate, deps.Auth.GetProfile)
		auth.PUT("/profile", authenticate, deps.Auth.UpdateProfile)
		auth.POST("/change-password", authenticate, deps.Auth.ChangePassword)
		auth.POST("/logout", authenticate, deps.Auth.Logout)

		auth.GET("/admin/users", authenticate, adminOnly, deps.Auth.AdminUsers)
	}

	// Catalog routes
	items := router.Group("/api/items")
	{
		items.GET("", deps.Items.List)
		items.GET("/search", deps.Items.Search)
		items.GET("/:id", deps.Items.Get)

		items.POST("", authenticate, deps.Items.Create)
		items.PUT("/:id", authenticate, deps.Items.Update)
		items.DELETE("/:id", authenticate, adminOnly, deps.Items.Delete)
	}

	// Uploaded product images
	router.Static("/uploads/products", deps.Config.UploadDir)

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if deps.Config.SwaggerHost != "" {
		docs.SwaggerInfo.Host = deps.Config.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
