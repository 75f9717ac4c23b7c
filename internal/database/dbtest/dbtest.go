// Package dbtest opens throwaway sqlite databases for tests.
package dbtest

import (
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/database"
	"github.com/mentorconnect/backend/internal/repository"
)

// Open returns a migrated in-memory database that is closed when t ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.Config{StoreDriver: "memory"})
	if err != nil {
		t.Fatalf("dbtest: open: %v", err)
	}
	db = db.Session(&gorm.Session{Logger: logger.Default.LogMode(logger.Silent)})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("dbtest: migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Store returns a GormStore and message log over a fresh database.
func Store(t testing.TB) (*repository.GormStore, *repository.GormMessages) {
	t.Helper()
	db := Open(t)
	return repository.NewGormStore(db), repository.NewGormMessages(db)
}
