package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jortega/bancore/internal/domain"
)

// TransactionUseCase implements the three balance-affecting operations as
// atomic units: validate, lock, mutate, record, commit. If validation fails
// no lock is taken; if anything fails after the lock is acquired the unit is
// rolled back before the lock is released.
type TransactionUseCase struct {
	txManager   TransactionManager
	locks       LockCoordinator
	directory   AccountDirectory
	balanceRepo BalanceRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	retry       Retryer
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	locks LockCoordinator,
	directory AccountDirectory,
	balanceRepo BalanceRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:   txManager,
		locks:       locks,
		directory:   directory,
		balanceRepo: balanceRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
	}
}

// WithRetrier sets a retry policy for the transactional section of each
// operation. The section is re-runnable: balances are re-read under the
// still-held locks on every attempt.
func (uc *TransactionUseCase) WithRetrier(r Retryer) *TransactionUseCase {
	uc.retry = r
	return uc
}

func (uc *TransactionUseCase) runUnit(ctx context.Context, op func() error) error {
	if uc.retry == nil {
		return op()
	}

	return uc.retry.Retry(ctx, op)
}

// ConsignationInput represents input for an external deposit.
type ConsignationInput struct {
	AccountNumber string
	Depositor     string
	Amount        decimal.Decimal
}

// ConsignationResult is the snapshot returned after a successful deposit.
type ConsignationResult struct {
	EntryID    string
	AccountID  string
	Amount     decimal.Decimal
	NewBalance decimal.Decimal
	CreatedAt  time.Time
}

// Consignation credits an account with an external deposit. The balance row
// is created lazily at zero if the account has never been credited.
func (uc *TransactionUseCase) Consignation(ctx context.Context, input ConsignationInput) (*ConsignationResult, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	account, err := uc.directory.GetByNumber(ctx, input.AccountNumber)
	if err != nil {
		return nil, err
	}

	release, err := uc.locks.Acquire(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *ConsignationResult

	err = uc.runUnit(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		balance, err := uc.balanceRepo.GetForUpdate(ctx, tx, account.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		newAmount := balance.ApplyCredit(input.Amount)
		err = uc.balanceRepo.Upsert(ctx, tx, &domain.Balance{
			AccountID: account.ID,
			Amount:    newAmount,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		entry := &domain.Entry{
			ID:           uc.idGen.Generate(),
			AccountID:    account.ID,
			Counterparty: input.Depositor,
			Amount:       input.Amount,
			Direction:    domain.DirectionCredit,
			Kind:         domain.KindConsignation,
			CreatedAt:    now,
		}

		if err := uc.entryRepo.Append(ctx, tx, entry); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &ConsignationResult{
			EntryID:    entry.ID,
			AccountID:  account.ID,
			Amount:     input.Amount,
			NewBalance: newAmount,
			CreatedAt:  now,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// WithdrawalInput represents input for removing funds from an account.
type WithdrawalInput struct {
	AccountID string
	Amount    decimal.Decimal
}

// WithdrawalResult is the snapshot returned after a successful withdrawal.
type WithdrawalResult struct {
	EntryID    string
	AccountID  string
	Amount     decimal.Decimal
	NewBalance decimal.Decimal
	CreatedAt  time.Time
}

// Withdrawal debits an account. Fails with domain.ErrInsufficientFunds when
// the current balance cannot cover the amount; nothing is written in that case.
func (uc *TransactionUseCase) Withdrawal(ctx context.Context, input WithdrawalInput) (*WithdrawalResult, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	account, err := uc.directory.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	release, err := uc.locks.Acquire(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *WithdrawalResult

	err = uc.runUnit(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		balance, err := uc.balanceRepo.GetForUpdate(ctx, tx, account.ID)
		if err != nil {
			return err
		}

		if err := balance.ValidateDebit(input.Amount); err != nil {
			return err
		}

		now := time.Now().UTC()

		newAmount := balance.ApplyDebit(input.Amount)
		err = uc.balanceRepo.Upsert(ctx, tx, &domain.Balance{
			AccountID: account.ID,
			Amount:    newAmount,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		entry := &domain.Entry{
			ID:           uc.idGen.Generate(),
			AccountID:    account.ID,
			Counterparty: account.DocumentNumber,
			Amount:       input.Amount,
			Direction:    domain.DirectionDebit,
			Kind:         domain.KindWithdrawal,
			CreatedAt:    now,
		}

		if err := uc.entryRepo.Append(ctx, tx, entry); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &WithdrawalResult{
			EntryID:    entry.ID,
			AccountID:  account.ID,
			Amount:     input.Amount,
			NewBalance: newAmount,
			CreatedAt:  now,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// TransferInput represents input for moving funds between two accounts.
type TransferInput struct {
	SenderAccountID       string
	ReceiverAccountNumber string
	Amount                decimal.Decimal
}

// TransferResult is the snapshot returned after a successful transfer.
type TransferResult struct {
	SenderAccountID   string
	ReceiverAccountID string
	Amount            decimal.Decimal
	SenderBalance     decimal.Decimal
	CreatedAt         time.Time
}

// Transfer atomically moves funds from the sender to the receiver, writing
// exactly two ledger entries (a debit on the sender, a credit on the
// receiver) that share one timestamp and amount. Both locks are taken
// through the coordinator, which orders them canonically so two opposite
// transfers between the same pair cannot deadlock.
func (uc *TransactionUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	sender, err := uc.directory.GetByID(ctx, input.SenderAccountID)
	if err != nil {
		return nil, err
	}

	receiver, err := uc.directory.GetByNumber(ctx, input.ReceiverAccountNumber)
	if err != nil {
		return nil, err
	}

	if sender.ID == receiver.ID {
		return nil, domain.ErrSameAccount
	}

	release, err := uc.locks.Acquire(ctx, sender.ID, receiver.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *TransferResult

	err = uc.runUnit(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		senderBalance, err := uc.balanceRepo.GetForUpdate(ctx, tx, sender.ID)
		if err != nil {
			return err
		}

		// Re-check under lock: another operation may have drained the account
		// between the caller's read and this one.
		if err := senderBalance.ValidateDebit(input.Amount); err != nil {
			return err
		}

		receiverBalance, err := uc.balanceRepo.GetForUpdate(ctx, tx, receiver.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		newSenderAmount := senderBalance.ApplyDebit(input.Amount)
		err = uc.balanceRepo.Upsert(ctx, tx, &domain.Balance{
			AccountID: sender.ID,
			Amount:    newSenderAmount,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		err = uc.balanceRepo.Upsert(ctx, tx, &domain.Balance{
			AccountID: receiver.ID,
			Amount:    receiverBalance.ApplyCredit(input.Amount),
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		// Both entries carry the sender's document number as counterparty,
		// matching how the upstream system records transfers. The sender's own
		// entry therefore names the sender, not the receiver.
		outEntry := &domain.Entry{
			ID:           uc.idGen.Generate(),
			AccountID:    sender.ID,
			Counterparty: sender.DocumentNumber,
			Amount:       input.Amount,
			Direction:    domain.DirectionDebit,
			Kind:         domain.KindTransferOut,
			CreatedAt:    now,
		}
		inEntry := &domain.Entry{
			ID:           uc.idGen.Generate(),
			AccountID:    receiver.ID,
			Counterparty: sender.DocumentNumber,
			Amount:       input.Amount,
			Direction:    domain.DirectionCredit,
			Kind:         domain.KindTransferIn,
			CreatedAt:    now,
		}

		if err := uc.entryRepo.Append(ctx, tx, outEntry, inEntry); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &TransferResult{
			SenderAccountID:   sender.ID,
			ReceiverAccountID: receiver.ID,
			Amount:            input.Amount,
			SenderBalance:     newSenderAmount,
			CreatedAt:         now,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
