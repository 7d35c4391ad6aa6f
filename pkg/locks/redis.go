package locks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
)

const defaultRetryInterval = 25 * time.Millisecond

type lockStore interface {
	AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, token string) (bool, error)
	LockKey(name string) string
}

// Redis is a Locker shared by every API instance. A lock expires after ttl
// even if its holder dies, and acquisition gives up after the same ttl.
type Redis struct {
	store         lockStore
	ttl           time.Duration
	retryInterval time.Duration
	logg          *logger.Logger
}

func NewRedis(store lockStore, ttl time.Duration, logg *logger.Logger) (*Redis, error) {
	if store == nil {
		return nil, fmt.Errorf("lock store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("lock ttl must be positive")
	}
	return &Redis{store: store, ttl: ttl, retryInterval: defaultRetryInterval, logg: logg}, nil
}

func (r *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	redisKey := r.store.LockKey(key)
	token := uuid.NewString()
	deadline := time.NewTimer(r.ttl)
	defer deadline.Stop()

	for {
		ok, err := r.store.AcquireLock(ctx, redisKey, token, r.ttl)
		if err != nil {
			return nil, pkgerrors.Backend(err, "acquire lock "+key)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, pkgerrors.New(pkgerrors.CodeBackend, "timed out waiting for lock "+key)
		case <-time.After(r.retryInterval):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.ttl)
			defer cancel()
			released, err := r.store.ReleaseLock(releaseCtx, redisKey, token)
			if r.logg == nil {
				return
			}
			logCtx := r.logg.WithField(ctx, "lock_key", redisKey)
			switch {
			case err != nil:
				r.logg.Error(logCtx, "lock.release_failed", err)
			case !released:
				// the critical section outlived the ttl; another instance
				// may have curated the same car concurrently.
				r.logg.Warn(r.logg.WithField(logCtx, "lock_ttl", r.ttl.String()), "lock.expired_before_release")
			}
		})
	}, nil
}
