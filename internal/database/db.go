package database

import (
	"context"
	"fmt"
	"time"

	"github.com/justsurfingit/jobtrack-ai/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the Postgres pool described by dsn, checks it is reachable
// and migrates the schema.
func Connect(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), Config(log))
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	log.Info("Database connection established")

	log.Info("Running migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Config is the gorm configuration shared by every dialect we open. Query
// logging goes through logrus; duplicate-key errors are translated to
// gorm.ErrDuplicatedKey.
func Config(log *logrus.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Application{}); err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}
	return nil
}
