package main

import (
	"context"
	"log"

	"github.com/friendoria/friendoria/db"
	"github.com/friendoria/friendoria/internal/auth"
	"github.com/friendoria/friendoria/internal/config"
	"github.com/friendoria/friendoria/internal/router"
	"github.com/friendoria/friendoria/internal/storage"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := auth.Init(cfg.Auth.JWTSecret); err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	if err := db.ConnectDatabase(cfg.Database.DSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	store, err := buildBlobStore(cfg)

	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}

	r := router.NewRouter(cfg, store)

	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func buildBlobStore(cfg *config.Config) (storage.BlobStore, error) {
	if cfg.Storage.Driver == config.StorageDriverS3 {
		return storage.NewS3Store(
			context.Background(),
			cfg.Storage.Region,
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
		)
	}

	return storage.NewLocalStore(cfg.Storage.UploadsDir), nil
}
