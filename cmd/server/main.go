package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"agrismart-api/internal/adapters/http/middleware"
	"agrismart-api/internal/adapters/http/routes"
	"agrismart-api/internal/adapters/messaging"
	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/adapters/persistence/repositories"
	"agrismart-api/internal/adapters/storage"
	"agrismart-api/internal/config"
	"agrismart-api/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "agrismart-api/docs" // Swagger docs
)

// @title AgriSmart API
// @version 1.0
// @description Farm produce marketplace: farmers list products, buyers send inquiries, admins moderate.

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed bootstrap admin
	if err := config.NewSeeder(repositories.NewUserRepository(db), cfg).Run(context.Background()); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Shared rate limiter storage (optional)
	var limiterStore fiber.Storage
	if cfg.Redis.Addr != "" {
		redisStore, err := storage.NewRedisStorage(cfg.Redis)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, rate limits stay in memory: %v", err)
		} else {
			limiterStore = redisStore
			defer redisStore.Close()
		}
	}

	// Event publisher (optional)
	var publisher services.EventPublisher = services.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQ)
		if err != nil {
			log.Printf("⚠️ RabbitMQ unavailable, events are disabled: %v", err)
		} else {
			publisher = rabbit
		}
	}
	defer publisher.Close()

	svc := routes.BuildServices(db, publisher, cfg)

	// Start moderation digest
	if cfg.DigestEnabled() {
		cronService := services.NewCronService(svc.Admin)
		if err := cronService.Start(cfg.Digest.Schedule); err != nil {
			log.Printf("⚠️ Invalid DIGEST_SCHEDULE %q: %v", cfg.Digest.Schedule, err)
		} else {
			defer cronService.Stop()
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AgriSmart API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg, limiterStore)

	// Setup routes
	routes.Setup(app, svc, cfg, limiterStore, config.HealthCheck)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
