package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jortega/bancore/internal/domain"
)

// ProfileUseCase projects read-only views over the ledger. It takes no
// locks: it may observe a balance that is momentarily stale relative to an
// in-flight mutation, but never a half-applied transfer, because mutation
// and append commit together before the lock is released.
type ProfileUseCase struct {
	directory   AccountDirectory
	balanceRepo BalanceRepository
	entryRepo   EntryRepository
}

// NewProfileUseCase creates a new ProfileUseCase.
func NewProfileUseCase(directory AccountDirectory, balanceRepo BalanceRepository, entryRepo EntryRepository) *ProfileUseCase {
	return &ProfileUseCase{
		directory:   directory,
		balanceRepo: balanceRepo,
		entryRepo:   entryRepo,
	}
}

// Profile is the account view: identity, current balance, and ledger
// entries grouped by kind.
type Profile struct {
	Account       *domain.Account
	Balance       decimal.Decimal
	Consignations []*domain.Entry
	Transfers     []*domain.Entry
	Withdrawals   []*domain.Entry
}

// Profile builds the profile view for an account.
func (uc *ProfileUseCase) Profile(ctx context.Context, accountID string) (*Profile, error) {
	account, err := uc.directory.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	balance, err := uc.balanceRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	consignations, err := uc.entryRepo.ListByAccount(ctx, accountID, domain.KindConsignation)
	if err != nil {
		return nil, err
	}

	transfers, err := uc.entryRepo.ListByAccount(ctx, accountID, domain.TransferKinds...)
	if err != nil {
		return nil, err
	}

	withdrawals, err := uc.entryRepo.ListByAccount(ctx, accountID, domain.KindWithdrawal)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Account:       account,
		Balance:       balance.Amount,
		Consignations: consignations,
		Transfers:     transfers,
		Withdrawals:   withdrawals,
	}, nil
}

// ListEntries lists ledger entries for an account, optionally filtered by kind.
func (uc *ProfileUseCase) ListEntries(ctx context.Context, accountID string, kinds ...domain.Kind) ([]*domain.Entry, error) {
	if _, err := uc.directory.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	return uc.entryRepo.ListByAccount(ctx, accountID, kinds...)
}
