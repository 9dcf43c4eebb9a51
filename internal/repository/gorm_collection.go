package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const insertBatchSize = 200

// GormCollection stores a snapshot in one PostgreSQL table. Rows are read
// back in insertion order via the seq column.
type GormCollection[T any] struct {
	db *gorm.DB
}

// NewGormCollection binds T's table
func NewGormCollection[T any](db *gorm.DB) *GormCollection[T] {
	return &GormCollection[T]{db: db}
}

func (c *GormCollection[T]) GetAll(ctx context.Context) ([]T, error) {
	items := []T{}
	if err := c.db.WithContext(ctx).Order("seq").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("gorm find: %w", err)
	}
	return items, nil
}

// Save replaces every row in a single transaction
func (c *GormCollection[T]) Save(ctx context.Context, items []T) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var zero T
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&zero).Error; err != nil {
			return fmt.Errorf("gorm clear: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&items, insertBatchSize).Error; err != nil {
			return fmt.Errorf("gorm insert: %w", err)
		}
		return nil
	})
}
