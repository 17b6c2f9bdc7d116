package domain

import "errors"

var (
	// Lookup errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account number or document already registered")

	// Transaction errors
	ErrInvalidAmount     = errors.New("amount must be positive with at most two decimal places")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameAccount       = errors.New("cannot transfer to same account")

	// Infrastructure errors
	ErrLockTimeout        = errors.New("account is locked by a concurrent operation")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
