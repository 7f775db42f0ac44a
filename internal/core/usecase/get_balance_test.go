package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/usecase"
)

func TestGetBalanceUseCase_Success(t *testing.T) {
	reader := &mockBalanceReader{
		getBalanceFn: func(ctx context.Context, owner int64) (int64, error) {
			return 1500, nil
		},
	}
	uc := usecase.NewGetBalanceUseCase(reader, discardLogger)

	out, err := uc.Execute(context.Background(), usecase.BalanceInput{UserID: 7})

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if out.UserID != 7 {
		t.Fatalf("expected userID 7, got %d", out.UserID)
	}
	if out.Balance != 1500 {
		t.Fatalf("expected balance 1500, got %d", out.Balance)
	}
}

func TestGetBalanceUseCase_InvalidUserID(t *testing.T) {
	uc := usecase.NewGetBalanceUseCase(&mockBalanceReader{}, discardLogger)

	_, err := uc.Execute(context.Background(), usecase.BalanceInput{UserID: 0})

	_ = assertException(t, err, http.StatusBadRequest)
}

func TestGetBalanceUseCase_WalletNotFound(t *testing.T) {
	reader := &mockBalanceReader{
		getBalanceFn: func(ctx context.Context, owner int64) (int64, error) {
			return 0, fmt.Errorf("remote: %w", entity.ErrWalletNotFound)
		},
	}
	uc := usecase.NewGetBalanceUseCase(reader, discardLogger)

	_, err := uc.Execute(context.Background(), usecase.BalanceInput{UserID: 7})

	_ = assertException(t, err, http.StatusNotFound)
}

func TestGetBalanceUseCase_UpstreamError(t *testing.T) {
	reader := &mockBalanceReader{
		getBalanceFn: func(ctx context.Context, owner int64) (int64, error) {
			return 0, errors.New("nats: timeout")
		},
	}
	uc := usecase.NewGetBalanceUseCase(reader, discardLogger)

	_, err := uc.Execute(context.Background(), usecase.BalanceInput{UserID: 7})

	_ = assertException(t, err, http.StatusBadGateway)
}
