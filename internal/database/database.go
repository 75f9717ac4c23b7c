package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/models"
)

// MemoryDSN is the sqlite DSN used by the memory store driver.
const MemoryDSN = "file::memory:"

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	DB = db
	slog.Info("database connected", "driver", cfg.StoreDriver)
	return nil
}

// Open builds a gorm handle for cfg.StoreDriver and configures its pool.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := buildDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if dialector.Name() == "sqlite" {
		// One long-lived connection: sqlite serializes writers, and a
		// memory database is dropped with its last connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
		return db, nil
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

func buildDialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.StoreDriver {
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath), nil
	case "memory":
		return sqlite.Open(MemoryDSN), nil
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q (supported: postgres, sqlite, memory)", cfg.StoreDriver)
	}
}

// Models lists every table the service owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.MentorProfile{},
		&models.Session{},
		&models.Review{},
		&models.Message{},
		&models.RefreshToken{},
		&models.Report{},
		&models.Block{},
		&models.PlatformSetting{},
		&models.SystemLog{},
	}
}

// Migrate runs AutoMigrate for every model on db.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// MigrateAll migrates the package-level connection.
func MigrateAll() error {
	return Migrate(DB)
}

func Ping() error {
	if DB == nil {
		return fmt.Errorf("database not configured")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
