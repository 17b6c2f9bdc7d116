package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether an entry increases or decreases a balance.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Kind classifies a ledger entry by the operation that produced it.
type Kind string

const (
	KindConsignation Kind = "consignation"
	KindWithdrawal   Kind = "withdrawal"
	KindTransferIn   Kind = "transfer_in"
	KindTransferOut  Kind = "transfer_out"
)

// TransferKinds are the two kinds produced by a transfer pair.
var TransferKinds = []Kind{KindTransferIn, KindTransferOut}

// Entry is one immutable ledger record. Entries are append-only: once
// written they are never updated or deleted, and every account balance must
// equal the replay of its entries (credits minus debits).
//
// Counterparty is a weak reference, a document number or account number
// recorded as an identifier rather than a foreign key.
type Entry struct {
	ID           string
	AccountID    string
	Counterparty string
	Amount       decimal.Decimal
	Direction    Direction
	Kind         Kind
	CreatedAt    time.Time
}

// Signed returns the entry amount with its direction applied.
func (e *Entry) Signed() decimal.Decimal {
	if e.Direction == DirectionDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}
