package usecase

import (
	"context"
	"time"

	"github.com/jortega/bancore/internal/domain"
)

// AccountDirectory defines lookup and provisioning of accounts.
// Lookups are read-only and safe for unlimited concurrent readers.
type AccountDirectory interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
}

// BalanceRepository defines data access for account balances. GetForUpdate
// and Upsert must only be called while the caller holds the account lock.
type BalanceRepository interface {
	// Get returns the balance for an account, or a zero balance if the
	// account has never been credited.
	Get(ctx context.Context, accountID string) (*domain.Balance, error)
	GetForUpdate(ctx context.Context, tx Transaction, accountID string) (*domain.Balance, error)
	Upsert(ctx context.Context, tx Transaction, balance *domain.Balance) error
}

// EntryRepository defines data access for the append-only ledger.
type EntryRepository interface {
	// Append stores entries atomically within the given transaction.
	// Entries are immutable once appended.
	Append(ctx context.Context, tx Transaction, entries ...*domain.Entry) error
	// ListByAccount returns entries for an account ordered by creation time
	// ascending. With no kinds it returns every entry; otherwise only
	// entries matching one of the given kinds.
	ListByAccount(ctx context.Context, accountID string, kinds ...domain.Kind) ([]*domain.Entry, error)
}

// Transaction represents an atomic unit over the balance and ledger stores.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// ReleaseFunc releases every lock granted by an Acquire call.
type ReleaseFunc func()

// LockCoordinator serializes mutations on accounts. Acquire grants
// exclusive access to every listed account, taking the locks in a single
// canonical order (ascending account ID) regardless of argument order.
// A bounded wait applies: when it elapses Acquire fails with
// domain.ErrLockTimeout instead of blocking the caller indefinitely.
type LockCoordinator interface {
	Acquire(ctx context.Context, accountIDs ...string) (ReleaseFunc, error)
}

// Retryer re-runs a transaction unit after transient storage failures.
// Implementations decide which errors are worth retrying; everything else
// passes through on the first attempt.
type Retryer interface {
	Retry(ctx context.Context, op func() error) error
}

// IDGenerator generates unique, time-ordered IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage for the transport layer.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
