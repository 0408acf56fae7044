package sessionlock

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry hands out one mutex per session id. A session's critical
// sections (history append, delete) serialize on that mutex; everything
// else runs outside it.
type Registry struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
	maxIdle time.Duration
}

type entry struct {
	mu       sync.Mutex
	lastUsed time.Time
}

func NewRegistry(maxIdle time.Duration) *Registry {
	if maxIdle <= 0 {
		maxIdle = time.Hour
	}
	return &Registry{
		entries: make(map[uuid.UUID]*entry),
		maxIdle: maxIdle,
	}
}

// Lock acquires the mutex for the given session, creating it on first
// access. The returned func releases it.
func (r *Registry) Lock(sessionId uuid.UUID) (unlock func()) {
	r.mu.Lock()
	e, ok := r.entries[sessionId]
	if !ok {
		e = &entry{}
		r.entries[sessionId] = e
	}
	e.lastUsed = time.Now()
	r.mu.Unlock()

	e.mu.Lock()
	return func() {
		r.mu.Lock()
		e.lastUsed = time.Now()
		r.mu.Unlock()
		e.mu.Unlock()
	}
}

// Forget drops the mutex for a deleted session. A goroutine still holding
// it keeps its own reference; new callers get a fresh one.
func (r *Registry) Forget(sessionId uuid.UUID) {
	r.mu.Lock()
	delete(r.entries, sessionId)
	r.mu.Unlock()
}

// Sweep removes mutexes idle longer than maxIdle and reports how many were
// dropped. Call it periodically, e.g. from the cache janitor interval.
func (r *Registry) Sweep() int {
	cutoff := time.Now().Add(-r.maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if e.lastUsed.Before(cutoff) && e.mu.TryLock() {
			e.mu.Unlock()
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until stop is closed.
func (r *Registry) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Sweep()
			case <-stop:
				return
			}
		}
	}()
}

// Len reports how many session mutexes are currently registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
