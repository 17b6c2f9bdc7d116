package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the current amount held by one account. There is at most one
// Balance per account; an account that was never credited reads as zero.
type Balance struct {
	AccountID string
	Amount    decimal.Decimal
	UpdatedAt time.Time
}

// ValidateDebit checks whether the balance can be reduced by amount
// without going negative.
func (b *Balance) ValidateDebit(amount decimal.Decimal) error {
	if b.Amount.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns the balance amount after a debit.
func (b *Balance) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return b.Amount.Sub(amount)
}

// ApplyCredit returns the balance amount after a credit.
func (b *Balance) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return b.Amount.Add(amount)
}
