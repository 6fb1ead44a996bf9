package db

import (
	"fmt"
	"strings"

	"smartdrishti-server/confs"
	"smartdrishti-server/entities"
	"smartdrishti-server/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the configured database: a sqlite file for development,
// postgres for production. Call sites only ever see the Database interface,
// so every query is written once and the driver absorbs dialect differences.
func Connect(cfg *confs.Config) (Database, error) {
	var dialector gorm.Dialector

	switch cfg.DBDriver {
	case "postgres":
		dsn := cfg.DBURL
		if dsn != "" {
			// Hosted postgres URLs generally require SSL
			if !strings.Contains(dsn, "sslmode=") {
				if strings.Contains(dsn, "?") {
					dsn += "&sslmode=require"
				} else {
					dsn += "?sslmode=require"
				}
			}
			logger.Info("connecting to postgres using DB_URL")
		} else {
			if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
				return nil, fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_USER, DB_PASSWORD, DB_NAME)")
			}
			sslMode := "require"
			if cfg.DBHost == "localhost" || cfg.DBHost == "127.0.0.1" {
				sslMode = "disable"
			}
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
				cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, sslMode)
			logger.Info("connecting to postgres", zap.String("host", cfg.DBHost), zap.String("sslmode", sslMode))
		}
		dialector = postgres.Open(dsn)
	default:
		logger.Info("connecting to sqlite", zap.String("path", cfg.SQLitePath))
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	logger.Info("database ready", zap.String("driver", cfg.DBDriver))

	return &GormDatabase{DB: gdb}, nil
}

// Migrate creates or updates all SmartDrishti tables.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&entities.User{},
		&entities.Project{},
		&entities.Step{},
		&entities.StepMedia{},
		&entities.IotDevice{},
		&entities.SensorData{},
		&entities.SensorDataHourly{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
