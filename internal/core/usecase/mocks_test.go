package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
	apperrors "github.com/Rohitlovewanshi/Wallet-Management/internal/core/errors"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type mockTransactionRepository struct {
	createFn    func(ctx context.Context, tx *entity.Transaction, outbox *entity.Outbox) error
	findByIDFn  func(ctx context.Context, id string) (*entity.Transaction, error)
	findByKeyFn func(ctx context.Context, key string) (*entity.Transaction, error)
	completeFn  func(ctx context.Context, tx *entity.Transaction, outbox *entity.Outbox) (bool, error)
}

func (m *mockTransactionRepository) Create(ctx context.Context, tx *entity.Transaction, outbox *entity.Outbox) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, outbox)
	}
	return nil
}

func (m *mockTransactionRepository) FindByID(ctx context.Context, id string) (*entity.Transaction, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockTransactionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entity.Transaction, error) {
	if m.findByKeyFn != nil {
		return m.findByKeyFn(ctx, key)
	}
	return nil, nil
}

func (m *mockTransactionRepository) Complete(ctx context.Context, tx *entity.Transaction, outbox *entity.Outbox) (bool, error) {
	if m.completeFn != nil {
		return m.completeFn(ctx, tx, outbox)
	}
	return true, nil
}

type mockBalanceReader struct {
	getBalanceFn func(ctx context.Context, owner int64) (int64, error)
}

func (m *mockBalanceReader) GetBalance(ctx context.Context, owner int64) (int64, error) {
	if m.getBalanceFn != nil {
		return m.getBalanceFn(ctx, owner)
	}
	return 0, nil
}

type mockWalletRepository struct {
	findByOwnerFn    func(ctx context.Context, owner int64) (*entity.Wallet, error)
	createIfAbsentFn func(ctx context.Context, wallet *entity.Wallet) (bool, error)
	applyTransferFn  func(ctx context.Context, id string, sender, receiver int64, fn ports.TransferFunc) (*entity.Transfer, error)
}

func (m *mockWalletRepository) FindByOwner(ctx context.Context, owner int64) (*entity.Wallet, error) {
	if m.findByOwnerFn != nil {
		return m.findByOwnerFn(ctx, owner)
	}
	return nil, nil
}

func (m *mockWalletRepository) CreateIfAbsent(ctx context.Context, wallet *entity.Wallet) (bool, error) {
	if m.createIfAbsentFn != nil {
		return m.createIfAbsentFn(ctx, wallet)
	}
	return true, nil
}

func (m *mockWalletRepository) ApplyTransfer(ctx context.Context, id string, sender, receiver int64, fn ports.TransferFunc) (*entity.Transfer, error) {
	if m.applyTransferFn != nil {
		return m.applyTransferFn(ctx, id, sender, receiver, fn)
	}
	return nil, nil
}

func assertException(t *testing.T, err error, expectedCode int) *apperrors.Exception {
	t.Helper()
	exc, ok := err.(*apperrors.Exception)
	if !ok {
		t.Fatalf("expected *apperrors.Exception, got: %T: %v", err, err)
	}
	if exc.Code != expectedCode {
		t.Fatalf("expected code %d, got %d", expectedCode, exc.Code)
	}
	return exc
}
