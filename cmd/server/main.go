package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"courrier-registry/internal/adapters/http/middleware"
	"courrier-registry/internal/adapters/http/routes"
	"courrier-registry/internal/adapters/persistence/models"
	"courrier-registry/internal/adapters/persistence/repositories"
	"courrier-registry/internal/adapters/storage"
	"courrier-registry/internal/config"
	"courrier-registry/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

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

	// Attachment storage
	store, err := openStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open attachment storage: %v", err)
	}

	// Start the sweeper for attachments no courrier references
	if cfg.Attachments.SweepCron != "" {
		sweeper := services.NewAttachmentSweeper(repositories.NewCourrierRepository(db), store, cfg.Attachments.SweepGrace)
		if err := sweeper.Start(cfg.Attachments.SweepCron); err != nil {
			log.Fatalf("❌ Failed to start attachment sweeper: %v", err)
		}
		defer sweeper.Stop()
	}

	// Create Fiber app
	app := fiber.New(middleware.FiberConfig(cfg))

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, store)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// openStore selects the attachment backend
func openStore(ctx context.Context, cfg *config.Config) (storage.AttachmentStore, error) {
	if cfg.Attachments.Backend == "s3" {
		s3cfg := cfg.Attachments.S3
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    s3cfg.Bucket,
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			Prefix:    s3cfg.Prefix,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		log.Printf("✅ Attachments stored in s3://%s/%s", s3cfg.Bucket, s3cfg.Prefix)
		return store, nil
	}

	store, err := storage.NewLocalStore(cfg.Attachments.Dir)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Attachments stored in %s", store.Dir())
	return store, nil
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
