package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/jortega/bancore/internal/domain"
	"github.com/jortega/bancore/internal/usecase"
)

// MockAccountDirectory is a mock implementation of AccountDirectory.
type MockAccountDirectory struct {
	mu       sync.RWMutex
	byID     map[string]*domain.Account
	byNumber map[string]*domain.Account

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc     func(ctx context.Context, id string) (*domain.Account, error)
	GetByNumberFunc func(ctx context.Context, accountNumber string) (*domain.Account, error)
}

func NewMockAccountDirectory() *MockAccountDirectory {
	return &MockAccountDirectory{
		byID:     make(map[string]*domain.Account),
		byNumber: make(map[string]*domain.Account),
	}
}

// Seed registers an account without going through Create.
func (m *MockAccountDirectory) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[account.ID] = account
	m.byNumber[account.AccountNumber] = account
}

func (m *MockAccountDirectory) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byNumber[account.AccountNumber]; ok {
		return domain.ErrDuplicateAccount
	}
	m.byID[account.ID] = account
	m.byNumber[account.AccountNumber] = account
	return nil
}

func (m *MockAccountDirectory) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.byID[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountDirectory) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, accountNumber)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.byNumber[accountNumber]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

// MockBalanceRepository is a mock implementation of BalanceRepository.
type MockBalanceRepository struct {
	mu       sync.RWMutex
	balances map[string]*domain.Balance

	GetFunc          func(ctx context.Context, accountID string) (*domain.Balance, error)
	GetForUpdateFunc func(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Balance, error)
	UpsertFunc       func(ctx context.Context, tx usecase.Transaction, balance *domain.Balance) error
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{
		balances: make(map[string]*domain.Balance),
	}
}

// Seed installs a balance directly.
func (m *MockBalanceRepository) Seed(balance *domain.Balance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[balance.AccountID] = balance
}

func (m *MockBalanceRepository) Get(ctx context.Context, accountID string) (*domain.Balance, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if bal, ok := m.balances[accountID]; ok {
		cp := *bal
		return &cp, nil
	}
	return &domain.Balance{AccountID: accountID}, nil
}

func (m *MockBalanceRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Balance, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, accountID)
	}
	return m.Get(ctx, accountID)
}

func (m *MockBalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, balance *domain.Balance) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *balance
	m.balances[balance.AccountID] = &cp
	return nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry

	AppendFunc        func(ctx context.Context, tx usecase.Transaction, entries ...*domain.Entry) error
	ListByAccountFunc func(ctx context.Context, accountID string, kinds ...domain.Kind) ([]*domain.Entry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) Append(ctx context.Context, tx usecase.Transaction, entries ...*domain.Entry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, entries...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, accountID string, kinds ...domain.Kind) ([]*domain.Entry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, kinds...)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, e := range m.entries {
		if e.AccountID != accountID {
			continue
		}
		if len(kinds) > 0 && !kindMatches(e.Kind, kinds) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// All returns every stored entry regardless of account.
func (m *MockEntryRepository) All() []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

func kindMatches(kind domain.Kind, kinds []domain.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// LockCoordinatorFunc adapts a function to the LockCoordinator interface.
type LockCoordinatorFunc func(ctx context.Context, accountIDs ...string) (usecase.ReleaseFunc, error)

func (f LockCoordinatorFunc) Acquire(ctx context.Context, accountIDs ...string) (usecase.ReleaseFunc, error) {
	return f(ctx, accountIDs...)
}

// NopLocks returns a coordinator that always grants immediately.
func NopLocks() usecase.LockCoordinator {
	return LockCoordinatorFunc(func(ctx context.Context, accountIDs ...string) (usecase.ReleaseFunc, error) {
		return func() {}, nil
	})
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	m.Committed = true
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	m.RolledBack = true
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "01TEST00000000000000000000"[:26-len(itoa(m.counter))] + itoa(m.counter)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
