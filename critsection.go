package shadowreg

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// CriticalSection is the caller-supplied exclusivity primitive spec.md §5
// and §6 require: Storage enters it before constructing a view and leaves
// it (via defer, so a panicking callback still releases it) immediately
// after. Real embedded implementors back this with interrupt masking; this
// module ships stand-ins suitable for hosted testing.
type CriticalSection interface {
	Enter()
	Leave()
}

// NoOpCriticalSection performs no synchronization at all. It is the right
// choice when the caller already guarantees exclusivity by construction —
// e.g. a single-threaded test, or code that only ever uses the *Unchecked
// view accessors directly.
type NoOpCriticalSection struct{}

func (NoOpCriticalSection) Enter() {}
func (NoOpCriticalSection) Leave() {}

// MutexCriticalSection backs the critical section with a sync.Mutex. It
// models the host-thread-vs-goroutine concurrency a hosted (non-bare-metal)
// port of this system would actually have, where "interrupt context" is
// simulated by a separate goroutine that must still serialize with the
// host.
type MutexCriticalSection struct {
	mu sync.Mutex
}

func (c *MutexCriticalSection) Enter() { c.mu.Lock() }
func (c *MutexCriticalSection) Leave() { c.mu.Unlock() }

// SemaphoreCriticalSection backs the critical section with a
// golang.org/x/sync/semaphore.Weighted of weight 1, demonstrating the
// cancellation-aware primitive a real implementor might reach for instead
// of a bare mutex when porting this system off bare metal. Acquire uses
// context.Background() since view scopes never block or yield per spec.md
// §5 — there is nothing to cancel.
type SemaphoreCriticalSection struct {
	sem *semaphore.Weighted
}

// NewSemaphoreCriticalSection constructs a SemaphoreCriticalSection.
func NewSemaphoreCriticalSection() *SemaphoreCriticalSection {
	return &SemaphoreCriticalSection{sem: semaphore.NewWeighted(1)}
}

func (c *SemaphoreCriticalSection) Enter() {
	_ = c.sem.Acquire(context.Background(), 1)
}

func (c *SemaphoreCriticalSection) Leave() {
	c.sem.Release(1)
}
