package testutil

import (
	"testing"

	"houserent-service/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a fresh in-memory database migrated with the full schema.
// The pool is pinned to one connection so the in-memory database survives
// for the whole test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database object: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Category{}, &model.Agent{}, &model.House{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// UintPtr returns a pointer to the given id, for seeding rented houses.
func UintPtr(v uint) *uint {
	return &v
}
