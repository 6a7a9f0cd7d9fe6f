package sql

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteORM opens the database file used by the desktop installations.
func NewSQLiteORM(path string, timeout time.Duration) (ORM, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d", path, timeout.Milliseconds())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", path, err)
	}

	return &DB{DB: gormDB, autoMigrationEnabled: true, timeout: timeout}, nil
}
