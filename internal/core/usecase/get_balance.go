package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
	apperrors "github.com/Rohitlovewanshi/Wallet-Management/internal/core/errors"
)

type (
	BalanceInput struct {
		UserID int64
	}

	BalanceOutput struct {
		UserID  int64 `json:"userId"`
		Balance int64 `json:"balance"`
	}

	GetBalanceUseCase struct {
		reader ports.BalanceReader
		logger *slog.Logger
	}
)

func NewGetBalanceUseCase(reader ports.BalanceReader, logger *slog.Logger) *GetBalanceUseCase {
	return &GetBalanceUseCase{reader: reader, logger: logger}
}

// Execute asks the wallet ledger for the user's balance.
func (uc *GetBalanceUseCase) Execute(ctx context.Context, input BalanceInput) (*BalanceOutput, error) {
	uc.logger.InfoContext(ctx, "get balance request", slog.Int64("user_id", input.UserID))

	if input.UserID <= 0 {
		uc.logger.WarnContext(ctx, "get balance validation failed", slog.String("reason", "user_id is required"))
		return nil, apperrors.BadRequest(apperrors.WithMessage("user_id is required"))
	}

	balance, err := uc.reader.GetBalance(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrWalletNotFound) {
			return nil, apperrors.NotFound(apperrors.WithMessage("wallet not found"))
		}
		uc.logger.ErrorContext(ctx, "get balance failed",
			slog.Int64("user_id", input.UserID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.BadGateway(apperrors.WithError(err))
	}

	uc.logger.InfoContext(ctx, "balance retrieved",
		slog.Int64("user_id", input.UserID),
		slog.Int64("balance", balance),
	)

	return &BalanceOutput{
		UserID:  input.UserID,
		Balance: balance,
	}, nil
}
