package testutil

import (
	"context"

	"kanban-board-api/internal/database"
	"kanban-board-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	// every new connection to :memory: would be a separate, empty database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// NewSQLStore returns a SQLStore over a fresh in-memory database.
func NewSQLStore() (*database.SQLStore, error) {
	db, err := NewInMemoryDB()
	if err != nil {
		return nil, err
	}
	return database.NewSQLStore(db)
}

// NewMemoryStore returns a memory store holding doc, or the seed data when
// doc is nil.
func NewMemoryStore(doc *models.Database) *database.MemoryStore {
	store := database.NewMemoryStore()
	if doc != nil {
		_ = store.Write(context.Background(), doc)
	}
	return store
}
