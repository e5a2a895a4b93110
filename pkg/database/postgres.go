package database

import (
	"fmt"

	"waterlife-backoffice/internal/config"
	"waterlife-backoffice/internal/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres pool described by cfg, logging SQL through log.
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.PostgresDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statements for pgbouncer transaction mode
	}), &gorm.Config{
		Logger:      logger.NewGormLogger(log, logger.GormLevel(cfg.LogLevel)),
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Connection Pooling Setup
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Info("database connection established", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// Close releases the underlying pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
