// Package routes handles the setup and configuration of API routes
package routes

import (
	_ "pulse/docs" // Import swagger docs
	"pulse/internal/api/handlers"
	"pulse/internal/api/middleware"
	"pulse/internal/auth"
	"pulse/internal/config"
	"pulse/internal/monitor"
	"pulse/internal/repository"
	"pulse/internal/validation"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the collaborators the router is built from. Metrics and RateLimiter
// are created from the config when nil.
type Dependencies struct {
	UserRepo    repository.UserRepository
	Monitor     *monitor.Monitor
	AuthService *auth.Service
	Metrics     *middleware.Metrics
	RateLimiter *middleware.RateLimiter
}

// SetupRoutes configures all API routes and their handlers
func SetupRoutes(cfg *config.Config, deps Dependencies) *gin.Engine {
	// Initialize validators
	validation.Initialize()

	if deps.Metrics == nil {
		deps.Metrics = middleware.NewMetrics(cfg.App.Name)
	}
	if deps.RateLimiter == nil {
		deps.RateLimiter = middleware.NewRateLimiter(cfg)
	}
	if deps.AuthService == nil {
		deps.AuthService = auth.NewService(cfg.Auth)
	}

	// Create router
	r := gin.Default()

	r.Use(middleware.CORS(cfg.API.CORSOrigins))
	r.Use(deps.Metrics.Middleware())

	// Apply compression middleware globally
	r.Use(middleware.Compression(middleware.DefaultCompressionConfig()))

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(deps.AuthService, deps.UserRepo)

	// Initialize handlers
	rootHandler := handlers.NewRootHandler(cfg.App)
	healthHandler := handlers.NewHealthHandler(cfg.App, deps.Monitor)
	authHandler := handlers.NewAuthHandler(deps.UserRepo, deps.AuthService, cfg.Auth)
	userHandler := handlers.NewUserHandler()
	monitorHandler := handlers.NewMonitorHandler(deps.Monitor)

	// Routes without rate limiting
	r.GET("/", rootHandler.Root)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(deps.RateLimiter.Middleware())
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/register", authHandler.Register)
		}

		// User routes (requires authentication)
		users := api.Group("/users")
		users.Use(authMiddleware.AuthRequired())
		{
			users.GET("/me", userHandler.Me)
		}

		// Monitor routes
		monitorRoutes := api.Group("/monitor")
		monitorRoutes.Use(authMiddleware.AuthRequired())
		{
			monitorRoutes.GET("/checks", monitorHandler.ListChecks)

			// Admin-only routes
			monitorRoutes.POST("/run", authMiddleware.AdminRequired(), monitorHandler.RunChecks)
		}
	}

	return r
}
