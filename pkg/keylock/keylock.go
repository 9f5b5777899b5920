// Package keylock provides per-key mutual exclusion with deadline-aware
// acquisition. Operations on distinct keys proceed independently; waiters on
// the same key serialize through a weighted semaphore so a caller-supplied
// context bounds how long an acquisition may block.
package keylock

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"
)

var ErrTimeout = errors.New("lock acquisition timed out")

// KeyLock hands out one lock per key. Entries are reference counted and
// dropped once the last holder releases, so the map does not grow with the
// total number of keys ever locked.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

func New() *KeyLock {
	return &KeyLock{
		locks: make(map[string]*entry),
	}
}

// Acquire blocks until the lock for key is held or ctx is done. On context
// expiry it returns ErrTimeout for deadline exceeded and the context error
// for cancellation, so callers can distinguish a retryable timeout.
func (k *KeyLock) Acquire(ctx context.Context, key string) error {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	if err := e.sem.Acquire(ctx, 1); err != nil {
		k.release(key, false)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
	return nil
}

// Release unlocks key. Must be called exactly once per successful Acquire.
func (k *KeyLock) Release(key string) {
	k.release(key, true)
}

func (k *KeyLock) release(key string, held bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.locks[key]
	if !ok {
		return
	}
	if held {
		e.sem.Release(1)
	}
	e.refs--
	if e.refs <= 0 {
		delete(k.locks, key)
	}
}
