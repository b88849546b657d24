package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/domain/finance"
	"bizdesk/pkg/logger"
)

// Locker hands out short-lived Redis locks.
type Locker struct {
	client *redislock.Client
}

var _ finance.Locker = (*Locker)(nil)

// NewLocker creates a locker on client.
func NewLocker(client redis.UniversalClient) *Locker {
	return &Locker{client: redislock.New(client)}
}

// Obtain takes key for ttl. A held key is CONFLICT. When Redis itself fails
// the caller proceeds unlocked; the database transaction still applies.
func (l *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context), error) {
	lock, err := l.client.Obtain(ctx, "lock:"+key, ttl, nil)
	switch {
	case errors.Is(err, redislock.ErrNotObtained):
		return nil, apperror.NewConflict("operation already in progress").WithDetail("lock", key)
	case err != nil:
		logger.Warn(ctx, "redis lock unavailable, proceeding without lock", "lock", key, "error", err)
		return func(context.Context) {}, nil
	}

	return func(ctx context.Context) {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logger.Warn(ctx, "failed to release redis lock", "lock", key, "error", err)
		}
	}, nil
}
