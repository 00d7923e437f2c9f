// Package main provides the entry point for the Pulse API server
// @title Pulse API
// @version 1.0
// @description Pulse API server.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication
// @Security BearerAuth
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"pulse/internal/api/middleware"
	"pulse/internal/api/routes"
	"pulse/internal/api/server"
	"pulse/internal/auth"
	"pulse/internal/config"
	"pulse/internal/database"
	"pulse/internal/monitor"
	"pulse/internal/repository"
	"pulse/internal/repository/memory"
	"pulse/internal/repository/postgres"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	flag.Parse()

	// Load environment file
	if err := godotenv.Load(*envFile); err != nil && *envFile == ".env" {
		log.Printf("Warning: %v", err)
	}

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(cfg.Monitor.Timeout)

	// Initialize storage
	var userRepo repository.UserRepository
	switch cfg.Storage {
	case config.StorageMemory:
		log.Println("Using in-memory user storage")
		userRepo = memory.NewUserRepository()
	default:
		db, err := database.SetupDatabase(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		userRepo = postgres.NewUserRepository(db)
		mon.Register(monitor.NewDatabaseChecker(db))
	}

	// Optional dependencies
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		mon.Register(monitor.NewRedisChecker(rdb))
	}
	if cfg.AMQP.URL != "" {
		mon.Register(monitor.NewAMQPChecker(cfg.AMQP.URL))
	}

	go func() {
		if err := mon.Start(ctx, cfg.Monitor.Schedule); err != nil {
			log.Printf("Dependency monitor stopped: %v", err)
		}
	}()

	// Evict idle rate limiter entries
	limiter := middleware.NewRateLimiter(cfg)
	go limiter.Run(10*time.Minute, ctx.Done())

	router := routes.SetupRoutes(cfg, routes.Dependencies{
		UserRepo:    userRepo,
		Monitor:     mon,
		AuthService: auth.NewService(cfg.Auth),
		Metrics:     middleware.NewMetrics(cfg.App.Name),
		RateLimiter: limiter,
	})

	return server.New(cfg, router).Start(ctx)
}
