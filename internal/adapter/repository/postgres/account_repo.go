package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jortega/bancore/internal/domain"
	"github.com/jortega/bancore/internal/usecase"
)

// AccountRepository implements usecase.AccountDirectory.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const createAccountSQL = `
INSERT INTO accounts (id, account_number, owner_name, document_type, document_number, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// Create inserts a new account within the given transaction.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, createAccountSQL,
		account.ID,
		account.AccountNumber,
		account.OwnerName,
		account.DocumentType,
		account.DocumentNumber,
		timeToPgTimestamptz(account.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAccount
		}

		return storageErr(err)
	}

	return nil
}

const getAccountSQL = `
SELECT id, account_number, owner_name, document_type, document_number, created_at
FROM accounts `

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.get(ctx, getAccountSQL+`WHERE id = $1`, id)
}

// GetByNumber retrieves an account by its external account number.
func (r *AccountRepository) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return r.get(ctx, getAccountSQL+`WHERE account_number = $1`, accountNumber)
}

func (r *AccountRepository) get(ctx context.Context, query, arg string) (*domain.Account, error) {
	var (
		account   domain.Account
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.AccountNumber,
		&account.OwnerName,
		&account.DocumentType,
		&account.DocumentNumber,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, storageErr(err)
	}

	account.CreatedAt = createdAt.Time

	return &account, nil
}
