package sessionlock

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLockSerializesPerSession(t *testing.T) {
	r := NewRegistry(time.Hour)
	sessionId := uuid.New()

	const workers = 16
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := r.Lock(sessionId)
			defer unlock()
			v := counter
			time.Sleep(time.Millisecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestLockIndependentSessions(t *testing.T) {
	r := NewRegistry(time.Hour)
	a, b := uuid.New(), uuid.New()

	unlockA := r.Lock(a)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := r.Lock(b)
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on independent session blocked")
	}
}

func TestSweepDropsIdleEntries(t *testing.T) {
	r := NewRegistry(10 * time.Millisecond)
	unlock := r.Lock(uuid.New())
	unlock()

	assert.Equal(t, 1, r.Len())

	time.Sleep(30 * time.Millisecond)
	removed := r.Sweep()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, r.Len())
}

func TestSweepSkipsHeldLocks(t *testing.T) {
	r := NewRegistry(10 * time.Millisecond)
	sessionId := uuid.New()
	unlock := r.Lock(sessionId)
	defer unlock()

	time.Sleep(30 * time.Millisecond)
	removed := r.Sweep()

	assert.Equal(t, 0, removed)
	assert.Equal(t, 1, r.Len())
}

func TestForgetIsIdempotent(t *testing.T) {
	r := NewRegistry(time.Hour)
	sessionId := uuid.New()
	unlock := r.Lock(sessionId)
	unlock()

	r.Forget(sessionId)
	r.Forget(sessionId)
	assert.Equal(t, 0, r.Len())
}
