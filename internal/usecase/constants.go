package usecase

import "time"

const (
	// DefaultLockWait bounds how long an operation waits for account locks
	// before failing with domain.ErrLockTimeout.
	DefaultLockWait = 3 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
