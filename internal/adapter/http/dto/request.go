package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jortega/bancore/internal/usecase"
)

var validate = validator.New()

// RegisterRequest represents a request to provision an account.
type RegisterRequest struct {
	OwnerName      string          `json:"owner_name"      validate:"required,max=255"`
	DocumentType   string          `json:"document_type"   validate:"required,max=100"`
	DocumentNumber string          `json:"document_number" validate:"required,max=100"`
	AccountNumber  string          `json:"account_number"  validate:"required,max=100"`
	InitialAmount  decimal.Decimal `json:"initial_amount"`
}

// Validate validates the request.
func (r *RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		OwnerName:      r.OwnerName,
		DocumentType:   r.DocumentType,
		DocumentNumber: r.DocumentNumber,
		AccountNumber:  r.AccountNumber,
		InitialAmount:  r.InitialAmount,
	}
}

// LoginRequest represents a request to authenticate as an account holder.
type LoginRequest struct {
	AccountNumber  string `json:"account_number"  validate:"required"`
	DocumentNumber string `json:"document_number" validate:"required"`
}

// Validate validates the request.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// ConsignationRequest represents an external deposit request.
type ConsignationRequest struct {
	AccountNumber string          `json:"account_number" validate:"required"`
	Depositor     string          `json:"depositor"      validate:"required,max=100"`
	Amount        decimal.Decimal `json:"amount"`
}

// Validate validates the request.
func (r *ConsignationRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *ConsignationRequest) ToUseCaseInput() usecase.ConsignationInput {
	return usecase.ConsignationInput{
		AccountNumber: r.AccountNumber,
		Depositor:     r.Depositor,
		Amount:        r.Amount,
	}
}

// WithdrawalRequest represents a withdrawal request. The account is the
// authenticated caller's.
type WithdrawalRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *WithdrawalRequest) ToUseCaseInput(accountID string) usecase.WithdrawalInput {
	return usecase.WithdrawalInput{
		AccountID: accountID,
		Amount:    r.Amount,
	}
}

// TransferRequest represents a transfer request. The sender is the
// authenticated caller; the receiver is addressed by account number.
type TransferRequest struct {
	AccountNumber string          `json:"account_number" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

// Validate validates the request.
func (r *TransferRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput(senderAccountID string) usecase.TransferInput {
	return usecase.TransferInput{
		SenderAccountID:       senderAccountID,
		ReceiverAccountNumber: r.AccountNumber,
		Amount:                r.Amount,
	}
}
