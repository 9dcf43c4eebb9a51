package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"school-attendance/pkg/metrics"
	"school-attendance/pkg/redis"

	pkgerrors "school-attendance/pkg/errors"
)

const defaultLockWait = 5 * time.Second

// Locker serialises read-modify-write cycles on a collection
type Locker interface {
	// Lock blocks until name is held or the wait expires. The returned
	// func releases it.
	Lock(ctx context.Context, name string) (unlock func(), err error)
}

// WithLock runs fn while holding name
func WithLock(ctx context.Context, l Locker, name string, fn func() error) error {
	unlock, err := l.Lock(ctx, name)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

func lockTimeout(name string) error {
	return fmt.Errorf("%w: %w (%s)", pkgerrors.ErrStorageUnavailable, pkgerrors.ErrLockTimeout, name)
}

// ── in-process ──

type localLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

// NewLocalLocker keyed mutex for single-instance deployments
func NewLocalLocker(wait time.Duration) Locker {
	if wait <= 0 {
		wait = defaultLockWait
	}
	return &localLocker{slots: make(map[string]chan struct{}), wait: wait}
}

func (l *localLocker) slot(name string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[name]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[name] = ch
	}
	return ch
}

func (l *localLocker) Lock(ctx context.Context, name string) (func(), error) {
	ch := l.slot(name)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, lockTimeout(name)
	}
}

// ── redis ──

// LockClient the subset of the redis client the distributed lock needs
type LockClient interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, key, token string) error
	ExtendLock(ctx context.Context, key, token string, ttl time.Duration) error
}

type redisLocker struct {
	client LockClient
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

// NewRedisLocker distributed lock shared by every instance
func NewRedisLocker(client LockClient, ttl, wait time.Duration, logger *zap.Logger) Locker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if wait <= 0 {
		wait = defaultLockWait
	}
	return &redisLocker{client: client, ttl: ttl, wait: wait, logger: logger}
}

func (l *redisLocker) Lock(ctx context.Context, name string) (func(), error) {
	key := "collection:" + name
	deadline := time.Now().Add(l.wait)
	backoff := 20 * time.Millisecond

	for {
		token, err := l.client.TryLock(ctx, key, l.ttl)
		if err == nil {
			return l.hold(key, token), nil
		}
		if !errors.Is(err, redis.ErrLockNotAcquired) {
			l.logger.Error("redis lock failed", zap.String("collection", name), zap.Error(err))
			return nil, fmt.Errorf("%w: lock %s: %v", pkgerrors.ErrStorageUnavailable, name, err)
		}
		if time.Now().Add(backoff).After(deadline) {
			return nil, lockTimeout(name)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 200*time.Millisecond {
			backoff *= 2
		}
	}
}

// hold keeps the lock alive at a third of its ttl until the returned func
// releases it. A slow write outliving the ttl would otherwise let a second
// instance in.
func (l *redisLocker) hold(key, token string) func() {
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(l.ttl / 3)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), l.ttl/3)
				err := l.client.ExtendLock(ctx, key, token, l.ttl)
				cancel()
				if errors.Is(err, redis.ErrLockLost) {
					l.logger.Error("redis lock lost while held", zap.String("key", key))
					metrics.LockRenewalFailures.Inc()
					return
				}
				if err != nil {
					l.logger.Warn("redis lock renewal failed", zap.String("key", key), zap.Error(err))
					metrics.LockRenewalFailures.Inc()
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-stopped

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := l.client.Unlock(ctx, key, token); err != nil {
				l.logger.Warn("redis unlock failed", zap.String("key", key), zap.Error(err))
			}
		})
	}
}
