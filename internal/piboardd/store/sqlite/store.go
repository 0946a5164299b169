// Package sqlite provides the durable Store implementation backed by an
// embedded SQLite database, so identity and cache state survive restarts
// without an external service.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	perrors "github.com/Am0lShah/Display-Output/internal/piboardd/errors"
)

// entry is a single key-value row
type entry struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     string
	UpdatedAt time.Time
}

func (entry) TableName() string { return "kv_entries" }

// Store persists key-value pairs in a local SQLite file
type Store struct {
	db *gorm.DB
}

// Open creates or opens the database at path and runs migrations
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, perrors.NewError("STORAGE_OPEN_FAILED", fmt.Sprintf("failed to create data directory for %s", path), "sqlite.Open", perrors.ErrStorage)
	}

	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, perrors.NewError("STORAGE_OPEN_FAILED", fmt.Sprintf("failed to open database at %s", path), "sqlite.Open", perrors.ErrStorage)
	}

	// SQLite doesn't support concurrent writes
	sqlDB, err := db.DB()
	if err != nil {
		return nil, perrors.NewError("STORAGE_OPEN_FAILED", "failed to access underlying connection", "sqlite.Open", perrors.ErrStorage)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, perrors.NewError("STORAGE_MIGRATE_FAILED", "failed to migrate key-value schema", "sqlite.Open", perrors.ErrStorage)
	}

	return &Store{db: db}, nil
}

// Get retrieves the value for key
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var e entry
	err := s.db.WithContext(ctx).First(&e, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", perrors.NewError("KEY_NOT_FOUND", "no value stored for key "+key, "sqlite.Get", perrors.ErrDataAbsent)
	}
	if err != nil {
		return "", perrors.NewError("STORAGE_READ_FAILED", "failed to read key "+key, "sqlite.Get", perrors.ErrStorage)
	}
	return e.Value, nil
}

// Set stores value under key
func (s *Store) Set(ctx context.Context, key string, value string) error {
	e := entry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Save(&e).Error
	if err != nil {
		return perrors.NewError("STORAGE_WRITE_FAILED", "failed to write key "+key, "sqlite.Set", perrors.ErrStorage)
	}
	return nil
}

// Remove deletes key
func (s *Store) Remove(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&entry{}, "key = ?", key).Error
	if err != nil {
		return perrors.NewError("STORAGE_WRITE_FAILED", "failed to remove key "+key, "sqlite.Remove", perrors.ErrStorage)
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
