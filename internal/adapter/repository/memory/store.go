// Package memory provides an in-process storage backend. It backs the unit
// and concurrency tests and the STORE=memory development mode; the postgres
// backend is the production one.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jortega/bancore/internal/domain"
	"github.com/jortega/bancore/internal/usecase"
)

// Store holds accounts, balances, and the ledger in process memory.
// Writes go through transactions: they are staged on the Tx and applied to
// the maps only at Commit, so a rolled-back unit leaves no trace.
type Store struct {
	mu         sync.RWMutex
	accounts   map[string]*domain.Account
	byNumber   map[string]string
	byDocument map[string]string
	balances   map[string]*domain.Balance
	entries    []*domain.Entry
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:   make(map[string]*domain.Account),
		byNumber:   make(map[string]string),
		byDocument: make(map[string]string),
		balances:   make(map[string]*domain.Balance),
	}
}

// Begin starts a new staged transaction.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	return &Tx{store: s}, nil
}

// Tx stages writes until Commit.
type Tx struct {
	store    *Store
	accounts []*domain.Account
	balances []*domain.Balance
	entries  []*domain.Entry
	done     bool
}

// Commit applies every staged write atomically.
func (t *Tx) Commit(ctx context.Context) error {
	s := t.store

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.done {
		return nil
	}
	t.done = true

	for _, a := range t.accounts {
		if _, taken := s.byNumber[a.AccountNumber]; taken {
			return domain.ErrDuplicateAccount
		}
		if _, taken := s.byDocument[a.DocumentNumber]; taken {
			return domain.ErrDuplicateAccount
		}
	}

	for _, a := range t.accounts {
		s.accounts[a.ID] = a
		s.byNumber[a.AccountNumber] = a.ID
		s.byDocument[a.DocumentNumber] = a.ID
	}

	for _, b := range t.balances {
		s.balances[b.AccountID] = b
	}

	s.entries = append(s.entries, t.entries...)

	return nil
}

// Rollback discards staged writes. Calling it after Commit is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	t.done = true
	t.accounts = nil
	t.balances = nil
	t.entries = nil

	return nil
}

func stageTx(tx usecase.Transaction) *Tx {
	return tx.(*Tx)
}

// Create stages a new account.
func (s *Store) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	s.mu.RLock()
	_, numberTaken := s.byNumber[account.AccountNumber]
	_, documentTaken := s.byDocument[account.DocumentNumber]
	s.mu.RUnlock()

	if numberTaken || documentTaken {
		return domain.ErrDuplicateAccount
	}

	t := stageTx(tx)
	t.accounts = append(t.accounts, account)

	return nil
}

// GetByID retrieves an account by ID.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return account, nil
}

// GetByNumber retrieves an account by its external account number.
func (s *Store) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byNumber[accountNumber]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return s.accounts[id], nil
}

// Get returns the committed balance, or zero if the account has never been
// credited.
func (s *Store) Get(ctx context.Context, accountID string) (*domain.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balance(accountID), nil
}

// GetForUpdate returns the balance for mutation. The caller must hold the
// account lock; the staged transaction gives read-committed visibility.
func (s *Store) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balance(accountID), nil
}

func (s *Store) balance(accountID string) *domain.Balance {
	if b, ok := s.balances[accountID]; ok {
		cp := *b
		return &cp
	}

	return &domain.Balance{AccountID: accountID, Amount: decimal.Zero}
}

// Upsert stages a balance write.
func (s *Store) Upsert(ctx context.Context, tx usecase.Transaction, balance *domain.Balance) error {
	t := stageTx(tx)
	t.balances = append(t.balances, balance)

	return nil
}

// Append stages ledger entries.
func (s *Store) Append(ctx context.Context, tx usecase.Transaction, entries ...*domain.Entry) error {
	t := stageTx(tx)
	t.entries = append(t.entries, entries...)

	return nil
}

// ListByAccount returns entries for an account ordered by creation time
// ascending, optionally filtered by kind.
func (s *Store) ListByAccount(ctx context.Context, accountID string, kinds ...domain.Kind) ([]*domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[domain.Kind]bool, len(kinds))
	for _, k := range kinds {
		wanted[k] = true
	}

	var result []*domain.Entry
	for _, e := range s.entries {
		if e.AccountID != accountID {
			continue
		}
		if len(wanted) > 0 && !wanted[e.Kind] {
			continue
		}
		result = append(result, e)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}
