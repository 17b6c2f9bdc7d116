package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jortega/bancore/internal/domain"
	"github.com/jortega/bancore/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository. A missing row
// reads as a zero balance; the row itself is created by the first Upsert.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

const getBalanceSQL = `
SELECT account_id, amount, updated_at
FROM balances
WHERE account_id = $1`

// Get returns the committed balance without locking the row.
func (r *BalanceRepository) Get(ctx context.Context, accountID string) (*domain.Balance, error) {
	return scanBalance(r.pool.QueryRow(ctx, getBalanceSQL, accountID), accountID)
}

// GetForUpdate returns the balance with a FOR UPDATE row lock, a second
// fence under the account lock held by the caller.
func (r *BalanceRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Balance, error) {
	pgxTx := tx.(*Tx).PgxTx()

	return scanBalance(pgxTx.QueryRow(ctx, getBalanceSQL+` FOR UPDATE`, accountID), accountID)
}

const upsertBalanceSQL = `
INSERT INTO balances (account_id, amount, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (account_id) DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at`

// Upsert writes the new balance within the given transaction.
func (r *BalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, balance *domain.Balance) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, upsertBalanceSQL,
		balance.AccountID,
		decimalToNumeric(balance.Amount),
		timeToPgTimestamptz(balance.UpdatedAt),
	)
	if err != nil {
		return storageErr(err)
	}

	return nil
}

func scanBalance(row pgx.Row, accountID string) (*domain.Balance, error) {
	var (
		balance   domain.Balance
		amount    pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&balance.AccountID, &amount, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.Balance{AccountID: accountID, Amount: decimal.Zero}, nil
		}

		return nil, storageErr(err)
	}

	balance.Amount = numericToDecimal(amount)
	balance.UpdatedAt = updatedAt.Time

	return &balance, nil
}
