package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jortega/bancore/internal/domain"
	"github.com/jortega/bancore/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository. The ledger_entries
// table is append-only: there is no update or delete path here.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const appendEntrySQL = `
INSERT INTO ledger_entries (id, account_id, counterparty, amount, direction, kind, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Append inserts entries within the given transaction.
func (r *EntryRepository) Append(ctx context.Context, tx usecase.Transaction, entries ...*domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	for _, entry := range entries {
		_, err := pgxTx.Exec(ctx, appendEntrySQL,
			entry.ID,
			entry.AccountID,
			entry.Counterparty,
			decimalToNumeric(entry.Amount),
			string(entry.Direction),
			string(entry.Kind),
			timeToPgTimestamptz(entry.CreatedAt),
		)
		if err != nil {
			return storageErr(err)
		}
	}

	return nil
}

const listEntriesSQL = `
SELECT id, account_id, counterparty, amount, direction, kind, created_at
FROM ledger_entries
WHERE account_id = $1 AND (cardinality($2::text[]) = 0 OR kind = ANY($2))
ORDER BY created_at ASC, id ASC`

// ListByAccount returns entries for an account ordered by creation time
// ascending, optionally filtered by kind.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, kinds ...domain.Kind) ([]*domain.Entry, error) {
	kindFilter := make([]string, len(kinds))
	for i, k := range kinds {
		kindFilter[i] = string(k)
	}

	rows, err := r.pool.Query(ctx, listEntriesSQL, accountID, kindFilter)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		var (
			entry     domain.Entry
			amount    pgtype.Numeric
			direction string
			kind      string
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Counterparty,
			&amount,
			&direction,
			&kind,
			&createdAt,
		)
		if err != nil {
			return nil, storageErr(err)
		}

		entry.Amount = numericToDecimal(amount)
		entry.Direction = domain.Direction(direction)
		entry.Kind = domain.Kind(kind)
		entry.CreatedAt = createdAt.Time

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}

	return entries, nil
}
