package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johamwon/mealOrd/backend/internal/model"
	pkgerrors "github.com/johamwon/mealOrd/backend/pkg/errors"
)

// gormStore 基于 kv_entries 表的 Store 实现（PostgreSQL / SQLite）
type gormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 GORM Store
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry model.KVEntry
	err := s.db.WithContext(ctx).
		Where("name = ?", key).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrKeyNotFound
		}
		return nil, err
	}
	return []byte(entry.Value), nil
}

// Set 以 ON CONFLICT 整体覆盖写入
func (s *gormStore) Set(ctx context.Context, key string, value []byte) error {
	entry := model.KVEntry{
		Name:      key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}
