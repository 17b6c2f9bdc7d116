package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jortega/bancore/internal/domain"
	"github.com/jortega/bancore/internal/usecase"
	"github.com/jortega/bancore/internal/usecase/mocks"
)

type txFixture struct {
	directory   *mocks.MockAccountDirectory
	balanceRepo *mocks.MockBalanceRepository
	entryRepo   *mocks.MockEntryRepository
	txMgr       *mocks.MockTransactionManager
	uc          *usecase.TransactionUseCase
}

func newTxFixture() *txFixture {
	f := &txFixture{
		directory:   mocks.NewMockAccountDirectory(),
		balanceRepo: mocks.NewMockBalanceRepository(),
		entryRepo:   mocks.NewMockEntryRepository(),
		txMgr:       mocks.NewMockTransactionManager(),
	}
	f.uc = usecase.NewTransactionUseCase(
		f.txMgr, mocks.NopLocks(), f.directory, f.balanceRepo, f.entryRepo, mocks.NewMockIDGenerator(),
	)
	return f
}

func (f *txFixture) seedAccount(id, number, document string, balance decimal.Decimal) {
	f.directory.Seed(&domain.Account{
		ID:             id,
		AccountNumber:  number,
		OwnerName:      "Test Owner",
		DocumentType:   "CC",
		DocumentNumber: document,
	})
	f.balanceRepo.Seed(&domain.Balance{AccountID: id, Amount: balance})
}

func TestTransactionUseCase_Consignation(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.ConsignationInput
		setup     func(*txFixture)
		errorType error
	}{
		{
			name: "successful deposit",
			input: usecase.ConsignationInput{
				AccountNumber: "100200300",
				Depositor:     "9001234",
				Amount:        decimal.NewFromInt(150),
			},
			setup: func(f *txFixture) {
				f.seedAccount("acc-1", "100200300", "8005551", decimal.NewFromInt(50))
			},
		},
		{
			name: "deposit into never-credited account",
			input: usecase.ConsignationInput{
				AccountNumber: "100200300",
				Depositor:     "9001234",
				Amount:        decimal.NewFromInt(20),
			},
			setup: func(f *txFixture) {
				f.directory.Seed(&domain.Account{ID: "acc-1", AccountNumber: "100200300", DocumentNumber: "8005551"})
			},
		},
		{
			name: "unknown account",
			input: usecase.ConsignationInput{
				AccountNumber: "999999999",
				Amount:        decimal.NewFromInt(10),
			},
			setup:     func(f *txFixture) {},
			errorType: domain.ErrAccountNotFound,
		},
		{
			name: "zero amount rejected",
			input: usecase.ConsignationInput{
				AccountNumber: "100200300",
				Amount:        decimal.Zero,
			},
			setup: func(f *txFixture) {
				f.seedAccount("acc-1", "100200300", "8005551", decimal.Zero)
			},
			errorType: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount rejected",
			input: usecase.ConsignationInput{
				AccountNumber: "100200300",
				Amount:        decimal.NewFromInt(-5),
			},
			setup: func(f *txFixture) {
				f.seedAccount("acc-1", "100200300", "8005551", decimal.Zero)
			},
			errorType: domain.ErrInvalidAmount,
		},
		{
			name: "sub-cent precision rejected",
			input: usecase.ConsignationInput{
				AccountNumber: "100200300",
				Amount:        decimal.RequireFromString("10.005"),
			},
			setup: func(f *txFixture) {
				f.seedAccount("acc-1", "100200300", "8005551", decimal.Zero)
			},
			errorType: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTxFixture()
			tt.setup(f)

			result, err := f.uc.Consignation(context.Background(), tt.input)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected error %v, got %v", tt.errorType, err)
				}
				if len(f.entryRepo.All()) != 0 {
					t.Error("failed deposit must not write ledger entries")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result == nil {
				t.Fatal("expected result, got nil")
			}

			bal, _ := f.balanceRepo.Get(context.Background(), result.AccountID)
			if !bal.Amount.Equal(result.NewBalance) {
				t.Errorf("stored balance %s does not match result %s", bal.Amount, result.NewBalance)
			}

			entries := f.entryRepo.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 ledger entry, got %d", len(entries))
			}
			if entries[0].Kind != domain.KindConsignation || entries[0].Direction != domain.DirectionCredit {
				t.Errorf("unexpected entry kind/direction: %s/%s", entries[0].Kind, entries[0].Direction)
			}
			if entries[0].Counterparty != tt.input.Depositor {
				t.Errorf("expected counterparty %q, got %q", tt.input.Depositor, entries[0].Counterparty)
			}
		})
	}
}

func TestTransactionUseCase_Withdrawal(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.WithdrawalInput
		setup       func(*txFixture)
		wantBalance decimal.Decimal
		errorType   error
	}{
		{
			name: "successful withdrawal",
			input: usecase.WithdrawalInput{
				AccountID: "acc-1",
				Amount:    decimal.NewFromInt(30),
			},
			setup: func(f *txFixture) {
				f.seedAccount("acc-1", "100200300", "8005551", decimal.NewFromInt(100))
			},
			wantBalance: decimal.NewFromInt(70),
		},
		{
			name: "withdraw entire balance",
			input: usecase.WithdrawalInput{
				AccountID: "acc-1",
				Amount:    decimal.NewFromInt(100),
			},
			setup: func(f *txFixture) {
				f.seedAccount("acc-1", "100200300", "8005551", decimal.NewFromInt(100))
			},
			wantBalance: decimal.Zero,
		},
		{
			name: "insufficient funds",
			input: usecase.WithdrawalInput{
				AccountID: "acc-1",
				Amount:    decimal.NewFromInt(101),
			},
			setup: func(f *txFixture) {
				f.seedAccount("acc-1", "100200300", "8005551", decimal.NewFromInt(100))
			},
			errorType: domain.ErrInsufficientFunds,
		},
		{
			name: "withdrawal from empty account",
			input: usecase.WithdrawalInput{
				AccountID: "acc-1",
				Amount:    decimal.NewFromInt(1),
			},
			setup: func(f *txFixture) {
				f.seedAccount("acc-1", "100200300", "8005551", decimal.Zero)
			},
			errorType: domain.ErrInsufficientFunds,
		},
		{
			name: "unknown account",
			input: usecase.WithdrawalInput{
				AccountID: "acc-missing",
				Amount:    decimal.NewFromInt(1),
			},
			setup:     func(f *txFixture) {},
			errorType: domain.ErrAccountNotFound,
		},
		{
			name: "invalid amount",
			input: usecase.WithdrawalInput{
				AccountID: "acc-1",
				Amount:    decimal.NewFromInt(-10),
			},
			setup: func(f *txFixture) {
				f.seedAccount("acc-1", "100200300", "8005551", decimal.NewFromInt(100))
			},
			errorType: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTxFixture()
			tt.setup(f)

			result, err := f.uc.Withdrawal(context.Background(), tt.input)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected error %v, got %v", tt.errorType, err)
				}
				if len(f.entryRepo.All()) != 0 {
					t.Error("failed withdrawal must not write ledger entries")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.NewBalance.Equal(tt.wantBalance) {
				t.Errorf("expected balance %s, got %s", tt.wantBalance, result.NewBalance)
			}

			entries := f.entryRepo.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 ledger entry, got %d", len(entries))
			}
			if entries[0].Kind != domain.KindWithdrawal || entries[0].Direction != domain.DirectionDebit {
				t.Errorf("unexpected entry kind/direction: %s/%s", entries[0].Kind, entries[0].Direction)
			}
		})
	}
}

func TestTransactionUseCase_Transfer(t *testing.T) {
	seedPair := func(f *txFixture, senderBalance decimal.Decimal) {
		f.seedAccount("acc-1", "100200300", "8005551", senderBalance)
		f.seedAccount("acc-2", "400500600", "9002222", decimal.NewFromInt(10))
	}

	tests := []struct {
		name       string
		input      usecase.TransferInput
		setup      func(*txFixture)
		wantSender decimal.Decimal
		errorType  error
	}{
		{
			name: "successful transfer",
			input: usecase.TransferInput{
				SenderAccountID:       "acc-1",
				ReceiverAccountNumber: "400500600",
				Amount:                decimal.NewFromInt(40),
			},
			setup:      func(f *txFixture) { seedPair(f, decimal.NewFromInt(100)) },
			wantSender: decimal.NewFromInt(60),
		},
		{
			name: "transfer entire balance",
			input: usecase.TransferInput{
				SenderAccountID:       "acc-1",
				ReceiverAccountNumber: "400500600",
				Amount:                decimal.NewFromInt(100),
			},
			setup:      func(f *txFixture) { seedPair(f, decimal.NewFromInt(100)) },
			wantSender: decimal.Zero,
		},
		{
			name: "insufficient funds",
			input: usecase.TransferInput{
				SenderAccountID:       "acc-1",
				ReceiverAccountNumber: "400500600",
				Amount:                decimal.NewFromInt(500),
			},
			setup:     func(f *txFixture) { seedPair(f, decimal.NewFromInt(100)) },
			errorType: domain.ErrInsufficientFunds,
		},
		{
			name: "reject same account transfer",
			input: usecase.TransferInput{
				SenderAccountID:       "acc-1",
				ReceiverAccountNumber: "100200300",
				Amount:                decimal.NewFromInt(10),
			},
			setup:     func(f *txFixture) { seedPair(f, decimal.NewFromInt(100)) },
			errorType: domain.ErrSameAccount,
		},
		{
			name: "unknown receiver",
			input: usecase.TransferInput{
				SenderAccountID:       "acc-1",
				ReceiverAccountNumber: "777777777",
				Amount:                decimal.NewFromInt(10),
			},
			setup:     func(f *txFixture) { seedPair(f, decimal.NewFromInt(100)) },
			errorType: domain.ErrAccountNotFound,
		},
		{
			name: "unknown sender",
			input: usecase.TransferInput{
				SenderAccountID:       "acc-missing",
				ReceiverAccountNumber: "400500600",
				Amount:                decimal.NewFromInt(10),
			},
			setup:     func(f *txFixture) { seedPair(f, decimal.NewFromInt(100)) },
			errorType: domain.ErrAccountNotFound,
		},
		{
			name: "invalid amount",
			input: usecase.TransferInput{
				SenderAccountID:       "acc-1",
				ReceiverAccountNumber: "400500600",
				Amount:                decimal.Zero,
			},
			setup:     func(f *txFixture) { seedPair(f, decimal.NewFromInt(100)) },
			errorType: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTxFixture()
			tt.setup(f)

			result, err := f.uc.Transfer(context.Background(), tt.input)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected error %v, got %v", tt.errorType, err)
				}
				if len(f.entryRepo.All()) != 0 {
					t.Error("failed transfer must not write ledger entries")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.SenderBalance.Equal(tt.wantSender) {
				t.Errorf("expected sender balance %s, got %s", tt.wantSender, result.SenderBalance)
			}

			receiverBal, _ := f.balanceRepo.Get(context.Background(), "acc-2")
			wantReceiver := decimal.NewFromInt(10).Add(tt.input.Amount)
			if !receiverBal.Amount.Equal(wantReceiver) {
				t.Errorf("expected receiver balance %s, got %s", wantReceiver, receiverBal.Amount)
			}

			entries := f.entryRepo.All()
			if len(entries) != 2 {
				t.Fatalf("expected 2 ledger entries, got %d", len(entries))
			}

			out, in := entries[0], entries[1]
			if out.Kind != domain.KindTransferOut || out.Direction != domain.DirectionDebit {
				t.Errorf("unexpected debit entry: %s/%s", out.Kind, out.Direction)
			}
			if in.Kind != domain.KindTransferIn || in.Direction != domain.DirectionCredit {
				t.Errorf("unexpected credit entry: %s/%s", in.Kind, in.Direction)
			}
			if !out.CreatedAt.Equal(in.CreatedAt) {
				t.Error("both transfer entries must share one timestamp")
			}
			if !out.Amount.Equal(in.Amount) {
				t.Error("both transfer entries must share one amount")
			}
			// Both legs name the sender's document
			if out.Counterparty != "8005551" || in.Counterparty != "8005551" {
				t.Errorf("expected sender document on both legs, got %q and %q", out.Counterparty, in.Counterparty)
			}
		})
	}
}

func TestTransactionUseCase_TransferAppendFailureRollsBack(t *testing.T) {
	f := newTxFixture()
	f.seedAccount("acc-1", "100200300", "8005551", decimal.NewFromInt(100))
	f.seedAccount("acc-2", "400500600", "9002222", decimal.Zero)

	appendErr := errors.New("append failed")
	f.entryRepo.AppendFunc = func(ctx context.Context, tx usecase.Transaction, entries ...*domain.Entry) error {
		return appendErr
	}

	var lastTx *mocks.MockTransaction
	f.txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		lastTx = &mocks.MockTransaction{}
		return lastTx, nil
	}

	_, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		SenderAccountID:       "acc-1",
		ReceiverAccountNumber: "400500600",
		Amount:                decimal.NewFromInt(50),
	})

	if !errors.Is(err, appendErr) {
		t.Fatalf("expected append error, got %v", err)
	}
	if lastTx == nil || !lastTx.RolledBack {
		t.Error("expected transaction rollback after ledger append failure")
	}
	if lastTx.Committed {
		t.Error("transaction must not commit after ledger append failure")
	}
}

func TestTransactionUseCase_LockFailureSkipsTransaction(t *testing.T) {
	f := newTxFixture()
	f.seedAccount("acc-1", "100200300", "8005551", decimal.NewFromInt(100))

	began := false
	f.txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		began = true
		return &mocks.MockTransaction{}, nil
	}

	blocked := usecase.NewTransactionUseCase(
		f.txMgr,
		mocks.LockCoordinatorFunc(func(ctx context.Context, accountIDs ...string) (usecase.ReleaseFunc, error) {
			return nil, domain.ErrLockTimeout
		}),
		f.directory, f.balanceRepo, f.entryRepo, mocks.NewMockIDGenerator(),
	)

	_, err := blocked.Withdrawal(context.Background(), usecase.WithdrawalInput{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(10),
	})

	if !errors.Is(err, domain.ErrLockTimeout) {
		t.Fatalf("expected lock timeout, got %v", err)
	}
	if began {
		t.Error("no transaction may begin when the lock is not granted")
	}
}

func TestTransactionUseCase_TransferLocksBothAccounts(t *testing.T) {
	f := newTxFixture()
	f.seedAccount("acc-1", "100200300", "8005551", decimal.NewFromInt(100))
	f.seedAccount("acc-2", "400500600", "9002222", decimal.Zero)

	var locked []string
	uc := usecase.NewTransactionUseCase(
		f.txMgr,
		mocks.LockCoordinatorFunc(func(ctx context.Context, accountIDs ...string) (usecase.ReleaseFunc, error) {
			locked = append(locked, accountIDs...)
			return func() {}, nil
		}),
		f.directory, f.balanceRepo, f.entryRepo, mocks.NewMockIDGenerator(),
	)

	_, err := uc.Transfer(context.Background(), usecase.TransferInput{
		SenderAccountID:       "acc-1",
		ReceiverAccountNumber: "400500600",
		Amount:                decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(locked) != 2 {
		t.Fatalf("expected both accounts locked, got %v", locked)
	}
}
