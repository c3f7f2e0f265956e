package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/eventlive/eventlive-backend/internal/config"
	"github.com/eventlive/eventlive-backend/internal/logging"
	"github.com/eventlive/eventlive-backend/internal/models"
)

// Connect opens the postgres database described by cfg.
func Connect(cfg config.DBConfig, log *zap.Logger) (*gorm.DB, error) {
	if cfg.URL != "" {
		log.Info("Connecting to PostgreSQL via DB_URL")
	} else {
		log.Info("Connecting to PostgreSQL", zap.String("host", cfg.Host), zap.Int("port", cfg.Port), zap.String("db", cfg.Name))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logging.NewGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("Database connected successfully")
	return db, nil
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.ChannelUser{},
		&models.ChatLog{},
		&models.Notice{},
		&models.Point{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
