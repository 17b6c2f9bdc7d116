package lock

import (
	"context"
	"errors"
	"time"

	"github.com/jortega/bancore/internal/domain"
	"github.com/jortega/bancore/internal/infrastructure/metrics"
	"github.com/jortega/bancore/internal/usecase"
)

// Instrumented wraps a LockCoordinator with Prometheus observations of
// wait time and timeouts.
type Instrumented struct {
	inner   usecase.LockCoordinator
	metrics *metrics.Metrics
}

// NewInstrumented creates a new Instrumented coordinator.
func NewInstrumented(inner usecase.LockCoordinator, m *metrics.Metrics) *Instrumented {
	return &Instrumented{inner: inner, metrics: m}
}

// Acquire delegates to the wrapped coordinator.
func (c *Instrumented) Acquire(ctx context.Context, accountIDs ...string) (usecase.ReleaseFunc, error) {
	start := time.Now()

	release, err := c.inner.Acquire(ctx, accountIDs...)

	c.metrics.LockWaitDuration.Observe(time.Since(start).Seconds())
	if errors.Is(err, domain.ErrLockTimeout) {
		c.metrics.LockTimeouts.Inc()
	}

	return release, err
}
