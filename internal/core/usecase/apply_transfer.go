package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

type (
	ApplyTransferOutput struct {
		Transfer *entity.Transfer
		// Duplicate is set when the request had already been processed and
		// nothing was changed by this call.
		Duplicate bool
	}

	ApplyTransferUseCase struct {
		repo   ports.WalletRepository
		logger *slog.Logger
	}
)

func NewApplyTransferUseCase(repo ports.WalletRepository, logger *slog.Logger) *ApplyTransferUseCase {
	return &ApplyTransferUseCase{repo: repo, logger: logger}
}

// Execute applies a transfer request exactly once per externalTxnId. Business
// failures are recorded and reported as a FAILED settlement; only store
// failures are returned as errors.
func (uc *ApplyTransferUseCase) Execute(ctx context.Context, req entity.TransferRequested) (*ApplyTransferOutput, error) {
	transfer, err := uc.repo.ApplyTransfer(ctx, req.ExternalTxnID, req.Sender, req.Receiver,
		func(sender, receiver *entity.Wallet) (*entity.Transfer, *entity.Outbox, error) {
			t := entity.ApplyTransfer(req, sender, receiver)
			outbox, err := entity.NewTransferSettledOutbox(t)
			if err != nil {
				return nil, nil, err
			}
			return t, outbox, nil
		})
	if err != nil {
		if errors.Is(err, entity.ErrTransferAlreadyApplied) {
			uc.logger.InfoContext(ctx, "duplicate transfer request ignored",
				slog.String("transaction_id", req.ExternalTxnID),
			)
			return &ApplyTransferOutput{Duplicate: true}, nil
		}
		return nil, fmt.Errorf("apply transfer %s: %w", req.ExternalTxnID, err)
	}

	if transfer.Succeeded() {
		uc.logger.InfoContext(ctx, "transfer applied",
			slog.String("transaction_id", transfer.ExternalTxnID),
			slog.Int64("sender", transfer.Sender),
			slog.Int64("receiver", transfer.Receiver),
			slog.Int64("amount", transfer.Amount),
		)
	} else {
		uc.logger.WarnContext(ctx, "transfer rejected",
			slog.String("transaction_id", transfer.ExternalTxnID),
			slog.String("reason", transfer.FailureReason),
		)
	}

	return &ApplyTransferOutput{Transfer: transfer}, nil
}
