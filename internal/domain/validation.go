package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountNumber = errors.New("invalid account number")
	ErrInvalidDocument      = errors.New("invalid document number")
	ErrInvalidOwnerName     = errors.New("invalid owner name")
	ErrAmountTooLarge       = errors.New("amount exceeds maximum allowed")
)

// Validation constants
const (
	MaxOwnerNameLength = 255
	MaxAmountDigits    = 10 // matches numeric(12,2) storage less the fraction
	AmountScale        = 2
)

// MaxAmount is the largest amount a single operation may move.
var MaxAmount = decimal.New(1, MaxAmountDigits) // 10^10

var accountNumberRegex = regexp.MustCompile(`^[0-9]{6,20}$`)

var documentNumberRegex = regexp.MustCompile(`^[A-Za-z0-9-]{4,20}$`)

// ValidateAmount checks that an operation amount is strictly positive,
// within range, and has at most two fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	// Compare values, not representations: 10.000 is a valid two-decimal
	// amount even though its exponent is -3.
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}

	if amount.GreaterThanOrEqual(MaxAmount) {
		return fmt.Errorf("%w: maximum is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateAccountNumber checks the external account number format.
func ValidateAccountNumber(number string) error {
	if !accountNumberRegex.MatchString(number) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountNumber, number)
	}
	return nil
}

// ValidateDocumentNumber checks the issuer identity document format.
func ValidateDocumentNumber(document string) error {
	if !documentNumberRegex.MatchString(document) {
		return fmt.Errorf("%w: %q", ErrInvalidDocument, document)
	}
	return nil
}

// ValidateOwnerName checks the account holder name.
func ValidateOwnerName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidOwnerName)
	}

	if len(name) > MaxOwnerNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidOwnerName, MaxOwnerNameLength)
	}

	return nil
}
