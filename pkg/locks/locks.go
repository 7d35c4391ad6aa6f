// Package locks serializes work per key, e.g. every write that touches one
// car's image set.
package locks

import (
	"context"
	"sync"
)

// Unlock releases a held lock. Calling it more than once is safe.
type Unlock func()

// Locker hands out exclusive per-key locks. Lock blocks until the key is free
// or ctx is done.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// Local is an in-process keyed mutex. Entries are dropped once no caller
// holds or waits on them.
type Local struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

type localEntry struct {
	sem  chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{entries: make(map[string]*localEntry)}
}

func (l *Local) Lock(ctx context.Context, key string) (Unlock, error) {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &localEntry{sem: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.sem
			l.release(key, entry)
		})
	}, nil
}

func (l *Local) release(key string, entry *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}

// CarKey is the lock key guarding one car's image set.
func CarKey(carID string) string {
	return "car:" + carID
}
