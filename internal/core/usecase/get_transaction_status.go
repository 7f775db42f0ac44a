package usecase

import (
	"context"
	"log/slog"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
	apperrors "github.com/Rohitlovewanshi/Wallet-Management/internal/core/errors"
)

type GetTransactionStatusOutput struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Sender   int64  `json:"sender"`
	Receiver int64  `json:"receiver"`
	Amount   int64  `json:"amount"`
	Reason   string `json:"reason,omitempty"`
}

type GetTransactionStatusUseCase struct {
	repo   ports.TransactionRepository
	logger *slog.Logger
}

func NewGetTransactionStatusUseCase(repo ports.TransactionRepository, logger *slog.Logger) *GetTransactionStatusUseCase {
	return &GetTransactionStatusUseCase{repo: repo, logger: logger}
}

func (uc *GetTransactionStatusUseCase) Execute(ctx context.Context, id string) (*GetTransactionStatusOutput, error) {
	tx, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		uc.logger.ErrorContext(ctx, "find transaction failed",
			slog.String("transaction_id", id),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Unexpected(apperrors.WithError(err))
	}
	if tx == nil {
		return nil, apperrors.NotFound(apperrors.WithMessage("transaction not found"))
	}

	return &GetTransactionStatusOutput{
		ID:       tx.ID,
		Status:   string(tx.Status),
		Sender:   tx.Sender,
		Receiver: tx.Receiver,
		Amount:   tx.Amount,
		Reason:   tx.Reason,
	}, nil
}
