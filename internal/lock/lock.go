// ABOUTME: Per-user mutual exclusion for weekly cycles.
// ABOUTME: LocalLocker serializes within one process; RedisLocker across processes.
package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrNotLocked is returned by Unlock for a key the caller does not hold.
var ErrNotLocked = errors.New("lock: not held")

// Locker grants exclusive access to a key. Lock blocks until the key is free
// or ctx is done.
type Locker interface {
	Lock(ctx context.Context, key string) error
	Unlock(ctx context.Context, key string) error
}

// LocalLocker is an in-process Locker.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocal returns an empty LocalLocker.
func NewLocal() *LocalLocker {
	return &LocalLocker{slots: map[string]chan struct{}{}}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

// Lock acquires key.
func (l *LocalLocker) Lock(ctx context.Context, key string) error {
	select {
	case l.slot(key) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unlock releases key.
func (l *LocalLocker) Unlock(_ context.Context, key string) error {
	select {
	case <-l.slot(key):
		return nil
	default:
		return ErrNotLocked
	}
}
