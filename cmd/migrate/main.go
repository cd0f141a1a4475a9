package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/nutritrack/backend/config"
	"github.com/pageza/nutritrack/backend/internal/database"
	"github.com/pageza/nutritrack/backend/internal/logging"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Drop the key-value table instead of creating it")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(config.GetEnvironment(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var db *gorm.DB
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		db, err = database.New(context.Background(), cfg, logger)
	case config.StorageSQLite:
		db, err = database.NewSQLite(cfg.SQLitePath)
	default:
		logger.Fatal("backend has no SQL schema", zap.String("backend", cfg.StorageBackend))
	}
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if *rollback {
		if err := database.RollbackMigrations(db, logger); err != nil {
			logger.Fatal("rollback failed", zap.Error(err))
		}
		logger.Info("successfully rolled back migrations")
		return
	}

	if err := database.RunMigrations(db, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("all migrations applied successfully")
}
