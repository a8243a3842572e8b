// Command seed fills an empty database with sample users, courriers and suivis.
package main

import (
	"context"
	"log"

	"courrier-registry/internal/adapters/persistence/models"
	"courrier-registry/internal/adapters/persistence/repositories"
	"courrier-registry/internal/adapters/storage"
	"courrier-registry/internal/config"
	"courrier-registry/internal/core/services"
	"courrier-registry/internal/pkg/password"
	"courrier-registry/internal/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}

	// Sample data has no attachments; the store is only needed to build the service
	store, err := storage.NewLocalStore(cfg.Attachments.Dir)
	if err != nil {
		log.Fatalf("❌ Failed to open attachment storage: %v", err)
	}

	courrierRepo := repositories.NewCourrierRepository(db)
	suiviRepo := repositories.NewSuiviRepository(db)
	txManager := repositories.NewTxManager(db)
	v := validator.MustNew()

	seeder := config.NewSeeder(
		services.NewUserService(repositories.NewUserRepository(db), txManager, v, password.NewHasher(cfg.Security.BcryptCost)),
		services.NewCourrierService(courrierRepo, suiviRepo, txManager, store, v),
		services.NewSuiviService(suiviRepo, courrierRepo, txManager, v),
	)
	if err := seeder.Run(context.Background()); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
