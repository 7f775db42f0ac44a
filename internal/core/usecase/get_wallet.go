package usecase

import (
	"context"
	"log/slog"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
	apperrors "github.com/Rohitlovewanshi/Wallet-Management/internal/core/errors"
)

type GetWalletOutput struct {
	ID      string `json:"id"`
	UserID  int64  `json:"userId"`
	Balance int64  `json:"balance"`
	Status  string `json:"status"`
}

type GetWalletUseCase struct {
	repo   ports.WalletRepository
	logger *slog.Logger
}

func NewGetWalletUseCase(repo ports.WalletRepository, logger *slog.Logger) *GetWalletUseCase {
	return &GetWalletUseCase{repo: repo, logger: logger}
}

func (uc *GetWalletUseCase) Execute(ctx context.Context, userID int64) (*GetWalletOutput, error) {
	if userID <= 0 {
		return nil, apperrors.BadRequest(apperrors.WithMessage("user_id is required"))
	}

	wallet, err := uc.repo.FindByOwner(ctx, userID)
	if err != nil {
		uc.logger.ErrorContext(ctx, "find wallet failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Unexpected(apperrors.WithError(err))
	}
	if wallet == nil {
		return nil, apperrors.NotFound(apperrors.WithMessage(entity.ErrWalletNotFound.Error()))
	}

	return &GetWalletOutput{
		ID:      wallet.ID,
		UserID:  wallet.Owner,
		Balance: wallet.Balance,
		Status:  string(wallet.Status),
	}, nil
}
