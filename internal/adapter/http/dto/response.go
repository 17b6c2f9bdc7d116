package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jortega/bancore/internal/domain"
	"github.com/jortega/bancore/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string    `json:"id"`
	AccountNumber  string    `json:"account_number"`
	OwnerName      string    `json:"owner_name"`
	DocumentType   string    `json:"document_type"`
	DocumentNumber string    `json:"document_number"`
	CreatedAt      time.Time `json:"created_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		AccountNumber:  a.AccountNumber,
		OwnerName:      a.OwnerName,
		DocumentType:   a.DocumentType,
		DocumentNumber: a.DocumentNumber,
		CreatedAt:      a.CreatedAt,
	}
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	Account     *AccountResponse `json:"account"`
}

// ConsignationResponse represents the result of a deposit.
type ConsignationResponse struct {
	EntryID    string          `json:"entry_id"`
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ConsignationFromResult converts a use case result to a response.
func ConsignationFromResult(r *usecase.ConsignationResult) *ConsignationResponse {
	return &ConsignationResponse{
		EntryID:    r.EntryID,
		AccountID:  r.AccountID,
		Amount:     r.Amount,
		NewBalance: r.NewBalance,
		CreatedAt:  r.CreatedAt,
	}
}

// WithdrawalResponse represents the result of a withdrawal.
type WithdrawalResponse struct {
	EntryID    string          `json:"entry_id"`
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance"`
	CreatedAt  time.Time       `json:"created_at"`
}

// WithdrawalFromResult converts a use case result to a response.
func WithdrawalFromResult(r *usecase.WithdrawalResult) *WithdrawalResponse {
	return &WithdrawalResponse{
		EntryID:    r.EntryID,
		AccountID:  r.AccountID,
		Amount:     r.Amount,
		NewBalance: r.NewBalance,
		CreatedAt:  r.CreatedAt,
	}
}

// TransferResponse represents the result of a transfer.
type TransferResponse struct {
	SenderAccountID   string          `json:"sender_account_id"`
	ReceiverAccountID string          `json:"receiver_account_id"`
	Amount            decimal.Decimal `json:"amount"`
	SenderBalance     decimal.Decimal `json:"sender_balance"`
	CreatedAt         time.Time       `json:"created_at"`
}

// TransferFromResult converts a use case result to a response.
func TransferFromResult(r *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		SenderAccountID:   r.SenderAccountID,
		ReceiverAccountID: r.ReceiverAccountID,
		Amount:            r.Amount,
		SenderBalance:     r.SenderBalance,
		CreatedAt:         r.CreatedAt,
	}
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Counterparty string          `json:"counterparty"`
	Amount       decimal.Decimal `json:"amount"`
	Direction    string          `json:"direction"`
	Kind         string          `json:"kind"`
	CreatedAt    time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:           e.ID,
		AccountID:    e.AccountID,
		Counterparty: e.Counterparty,
		Amount:       e.Amount,
		Direction:    string(e.Direction),
		Kind:         string(e.Kind),
		CreatedAt:    e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ProfileResponse represents the account profile view.
type ProfileResponse struct {
	FullName      string           `json:"full_name"`
	DocumentType  string           `json:"document_type"`
	AccountNumber string           `json:"account_number"`
	Balance       decimal.Decimal  `json:"balance"`
	Consignations []*EntryResponse `json:"consignations"`
	Transfers     []*EntryResponse `json:"transfers"`
	Withdrawals   []*EntryResponse `json:"withdrawals"`
}

// ProfileFromUseCase converts a use case profile to a response.
func ProfileFromUseCase(p *usecase.Profile) *ProfileResponse {
	return &ProfileResponse{
		FullName:      p.Account.OwnerName,
		DocumentType:  p.Account.DocumentType,
		AccountNumber: p.Account.AccountNumber,
		Balance:       p.Balance,
		Consignations: EntriesFromDomain(p.Consignations),
		Transfers:     EntriesFromDomain(p.Transfers),
		Withdrawals:   EntriesFromDomain(p.Withdrawals),
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
