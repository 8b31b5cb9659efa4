package gormdb

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
)

// OpenMemory opens a private in-memory sqlite store with the schema migrated.
// It backs the "memory" database driver and the tests.
func OpenMemory() (*Store, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	s, err := Open(sqlite.Open(dsn))
	if err != nil {
		return nil, err
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, err
	}
	// the database lives as long as one connection stays open
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)
	if err := s.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}
