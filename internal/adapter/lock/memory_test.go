package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jortega/bancore/internal/domain"
)

func TestMemoryCoordinator_Exclusivity(t *testing.T) {
	c := NewMemoryCoordinator(time.Second)
	ctx := context.Background()

	release, err := c.Acquire(ctx, "acc-1")
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	blocked, err := c.Acquire(ctx, "acc-1")
	if !errors.Is(err, domain.ErrLockTimeout) {
		if blocked != nil {
			blocked()
		}
		t.Fatalf("expected lock timeout while held, got %v", err)
	}

	release()

	release2, err := c.Acquire(ctx, "acc-1")
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	release2()
}

func TestMemoryCoordinator_ReleaseIsIdempotent(t *testing.T) {
	c := NewMemoryCoordinator(time.Second)

	release, err := c.Acquire(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	release()
	release()

	release2, err := c.Acquire(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("acquire after double release failed: %v", err)
	}
	release2()
}

func TestMemoryCoordinator_DuplicateIDsCollapse(t *testing.T) {
	c := NewMemoryCoordinator(time.Second)

	release, err := c.Acquire(context.Background(), "acc-1", "acc-1", "acc-1")
	if err != nil {
		t.Fatalf("acquire with duplicates failed: %v", err)
	}
	release()

	release2, err := c.Acquire(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("reacquire failed: %v", err)
	}
	release2()
}

func TestMemoryCoordinator_TimeoutReleasesPartialHold(t *testing.T) {
	c := NewMemoryCoordinator(200 * time.Millisecond)
	ctx := context.Background()

	// Hold acc-2 so a multi-lock acquire stalls after taking acc-1.
	holdB, err := c.Acquire(ctx, "acc-2")
	if err != nil {
		t.Fatalf("acquire acc-2 failed: %v", err)
	}

	_, err = c.Acquire(ctx, "acc-1", "acc-2")
	if !errors.Is(err, domain.ErrLockTimeout) {
		t.Fatalf("expected lock timeout, got %v", err)
	}

	// acc-1 must have been given back on failure.
	releaseA, err := c.Acquire(ctx, "acc-1")
	if err != nil {
		t.Fatalf("acc-1 leaked after failed multi-acquire: %v", err)
	}
	releaseA()
	holdB()
}

func TestMemoryCoordinator_ContextCancellation(t *testing.T) {
	c := NewMemoryCoordinator(10 * time.Second)

	hold, err := c.Acquire(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer hold()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	if _, err := c.Acquire(ctx, "acc-1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestMemoryCoordinator_OpposingOrdersDoNotDeadlock(t *testing.T) {
	c := NewMemoryCoordinator(5 * time.Second)

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			ids := []string{"acc-1", "acc-2"}
			if i == 1 {
				ids = []string{"acc-2", "acc-1"}
			}
			go func(ids []string) {
				defer wg.Done()
				for n := 0; n < 200; n++ {
					release, err := c.Acquire(context.Background(), ids...)
					if err != nil {
						t.Errorf("acquire failed: %v", err)
						return
					}
					release()
				}
			}(ids)
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(20 * time.Second):
		t.Fatal("opposing lock orders deadlocked")
	}
}

func TestDedupeSorted(t *testing.T) {
	got := dedupeSorted([]string{"b", "a", "b", "c", "a"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
