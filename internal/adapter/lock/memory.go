package lock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jortega/bancore/internal/domain"
	"github.com/jortega/bancore/internal/usecase"
)

// MemoryCoordinator implements usecase.LockCoordinator with in-process
// keyed semaphores. Locks are always taken in ascending account ID order,
// so two operations locking overlapping sets cannot deadlock.
type MemoryCoordinator struct {
	mu   sync.Mutex
	sems map[string]chan struct{}
	wait time.Duration
}

// NewMemoryCoordinator creates a new MemoryCoordinator. wait bounds the
// total time one Acquire call may block.
func NewMemoryCoordinator(wait time.Duration) *MemoryCoordinator {
	if wait <= 0 {
		wait = usecase.DefaultLockWait
	}

	return &MemoryCoordinator{
		sems: make(map[string]chan struct{}),
		wait: wait,
	}
}

// Acquire grants exclusive access to every account in accountIDs.
func (c *MemoryCoordinator) Acquire(ctx context.Context, accountIDs ...string) (usecase.ReleaseFunc, error) {
	ids := dedupeSorted(accountIDs)

	timer := time.NewTimer(c.wait)
	defer timer.Stop()

	held := make([]chan struct{}, 0, len(ids))

	releaseHeld := func() {
		// reverse acquisition order
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, id := range ids {
		sem := c.sem(id)

		select {
		case sem <- struct{}{}:
			held = append(held, sem)
		case <-timer.C:
			releaseHeld()
			return nil, domain.ErrLockTimeout
		case <-ctx.Done():
			releaseHeld()
			return nil, ctx.Err()
		}
	}

	var once sync.Once

	return func() {
		once.Do(releaseHeld)
	}, nil
}

func (c *MemoryCoordinator) sem(id string) chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	sem, ok := c.sems[id]
	if !ok {
		sem = make(chan struct{}, 1)
		c.sems[id] = sem
	}

	return sem
}

// dedupeSorted returns the unique IDs in ascending order, the canonical
// lock order.
func dedupeSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))

	uniq := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}

	sort.Strings(uniq)

	return uniq
}
