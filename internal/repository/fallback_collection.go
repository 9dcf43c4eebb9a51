package repository

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"school-attendance/pkg/metrics"

	pkgerrors "school-attendance/pkg/errors"
)

// FallbackCollection tries the primary store first and falls back to the
// JSON file when it errors. Once a write has landed only in the file, reads
// come from the file until the primary accepts a write again.
type FallbackCollection[T any] struct {
	name    string
	primary Collection[T]
	file    Collection[T]
	logger  *zap.Logger

	// set while the file holds a newer snapshot than the primary
	stale atomic.Bool
}

// NewFallbackCollection wraps primary with a file fallback
func NewFallbackCollection[T any](name string, primary, file Collection[T], logger *zap.Logger) *FallbackCollection[T] {
	return &FallbackCollection[T]{name: name, primary: primary, file: file, logger: logger}
}

func (c *FallbackCollection[T]) GetAll(ctx context.Context) ([]T, error) {
	if c.stale.Load() {
		items, err := c.file.GetAll(ctx)
		if err != nil {
			c.logger.Error("file read failed while primary is behind",
				zap.String("collection", c.name), zap.Error(err))
			return nil, fmt.Errorf("%w: read %s: %v", pkgerrors.ErrStorageUnavailable, c.name, err)
		}
		return items, nil
	}

	items, err := c.primary.GetAll(ctx)
	if err == nil {
		return items, nil
	}

	c.logger.Warn("primary store read failed, using file fallback",
		zap.String("collection", c.name), zap.Error(err))
	metrics.StorageFallbacks.WithLabelValues(c.name, "read").Inc()

	items, ferr := c.file.GetAll(ctx)
	if ferr != nil {
		c.logger.Error("file fallback read failed",
			zap.String("collection", c.name), zap.Error(ferr))
		return nil, fmt.Errorf("%w: read %s: %v", pkgerrors.ErrStorageUnavailable, c.name, ferr)
	}
	return items, nil
}

func (c *FallbackCollection[T]) Save(ctx context.Context, items []T) error {
	err := c.primary.Save(ctx, items)
	if err == nil {
		c.stale.Store(false)
		return nil
	}

	c.logger.Warn("primary store write failed, using file fallback",
		zap.String("collection", c.name), zap.Error(err))
	metrics.StorageFallbacks.WithLabelValues(c.name, "write").Inc()

	if ferr := c.file.Save(ctx, items); ferr != nil {
		c.logger.Error("file fallback write failed",
			zap.String("collection", c.name), zap.Error(ferr))
		return fmt.Errorf("%w: write %s: %v", pkgerrors.ErrStorageUnavailable, c.name, ferr)
	}
	c.stale.Store(true)
	return nil
}
