package service

import (
	"sync"

	"github.com/google/uuid"
)

// keyedMutex serializes adjustment writes and recomputes per forecast, so
// the fold order and the resulting effective quantity are race-free. Locks
// are created lazily and kept for the process lifetime; the forecast id
// space is small enough that this never needs eviction.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the mutex for the given key and returns its unlock func.
func (k *keyedMutex) Lock(key uuid.UUID) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
