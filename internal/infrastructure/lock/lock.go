// Package lock guards a billable target (table or customer) against two
// concurrent checkout attempts. The lock is held from checkout start until
// the bill is closed or the attempt reaches a terminal failure.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAlreadyLocked means another checkout attempt holds the target
var ErrAlreadyLocked = errors.New("target is locked by another checkout attempt")

// CheckoutLock acquires an exclusive, TTL-bounded lock on a target key.
// Acquire returns a release function; the TTL bounds how long a crashed
// holder can block the target.
type CheckoutLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// MemoryLock is an in-process implementation used in tests and when Redis is
// unavailable. It protects against races within one process only.
type MemoryLock struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

// NewMemoryLock creates an in-process checkout lock
func NewMemoryLock() *MemoryLock {
	return &MemoryLock{locks: make(map[string]time.Time)}
}

func (l *MemoryLock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiry, held := l.locks[key]; held && time.Now().Before(expiry) {
		return nil, ErrAlreadyLocked
	}
	l.locks[key] = time.Now().Add(ttl)

	release := func() {
		l.mu.Lock()
		delete(l.locks, key)
		l.mu.Unlock()
	}
	return release, nil
}
