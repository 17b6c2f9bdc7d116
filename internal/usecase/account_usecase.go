package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jortega/bancore/internal/domain"
)

// AccountUseCase handles account provisioning.
type AccountUseCase struct {
	txManager   TransactionManager
	directory   AccountDirectory
	balanceRepo BalanceRepository
	transactUC  *TransactionUseCase
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	directory AccountDirectory,
	balanceRepo BalanceRepository,
	transactUC *TransactionUseCase,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		directory:   directory,
		balanceRepo: balanceRepo,
		transactUC:  transactUC,
		idGen:       idGen,
	}
}

// RegisterInput represents input for provisioning an account.
type RegisterInput struct {
	OwnerName      string
	DocumentType   string
	DocumentNumber string
	AccountNumber  string
	InitialAmount  decimal.Decimal
}

// Register creates an account with a zero balance. When an initial amount is
// supplied the account is funded through the consignation path, so the
// opening credit shows up in the ledger like any other deposit.
func (uc *AccountUseCase) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	if err := domain.ValidateOwnerName(input.OwnerName); err != nil {
		return nil, err
	}
	if err := domain.ValidateDocumentNumber(input.DocumentNumber); err != nil {
		return nil, err
	}
	if err := domain.ValidateAccountNumber(input.AccountNumber); err != nil {
		return nil, err
	}
	if !input.InitialAmount.IsZero() {
		if err := domain.ValidateAmount(input.InitialAmount); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		AccountNumber:  input.AccountNumber,
		OwnerName:      input.OwnerName,
		DocumentType:   input.DocumentType,
		DocumentNumber: input.DocumentNumber,
		CreatedAt:      now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.directory.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	err = uc.balanceRepo.Upsert(ctx, tx, &domain.Balance{
		AccountID: account.ID,
		Amount:    decimal.Zero,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if !input.InitialAmount.IsZero() {
		_, err := uc.transactUC.Consignation(ctx, ConsignationInput{
			AccountNumber: account.AccountNumber,
			Depositor:     account.DocumentNumber,
			Amount:        input.InitialAmount,
		})
		if err != nil {
			return nil, err
		}
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.directory.GetByID(ctx, id)
}

// GetAccountByNumber retrieves an account by its external account number.
func (uc *AccountUseCase) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return uc.directory.GetByNumber(ctx, accountNumber)
}
