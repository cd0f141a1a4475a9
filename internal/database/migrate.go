package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/nutritrack/backend/internal/models"
)

// RunMigrations creates or updates the tables backing the key-value store
func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	log.Info("running migrations", zap.String("dialect", db.Dialector.Name()))
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return fmt.Errorf("failed to migrate kv_entries: %w", err)
	}
	return nil
}

// RollbackMigrations drops the tables created by RunMigrations. Every stored
// document is lost.
func RollbackMigrations(db *gorm.DB, log *zap.Logger) error {
	log.Warn("dropping kv_entries", zap.String("dialect", db.Dialector.Name()))
	if err := db.Migrator().DropTable(&models.KVEntry{}); err != nil {
		return fmt.Errorf("failed to drop kv_entries: %w", err)
	}
	return nil
}
