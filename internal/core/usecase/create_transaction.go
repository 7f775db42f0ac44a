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
	CreateInput struct {
		Sender         int64
		Receiver       int64
		Amount         int64
		Reason         string
		IdempotencyKey string
	}

	CreateOutput struct {
		ID         string
		Status     string
		Idempotent bool
	}

	CreateTransactionUseCase struct {
		repo   ports.TransactionRepository
		logger *slog.Logger
	}
)

func NewCreateTransactionUseCase(repo ports.TransactionRepository, logger *slog.Logger) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{repo: repo, logger: logger}
}

// Execute starts a transfer: the PENDING transaction and the TransferRequested
// event are stored together, and the event is published later by the outbox
// worker. Invalid input is rejected before anything is stored.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.IdempotencyKey != "" {
		out, err := uc.findExisting(ctx, input)
		if err != nil || out != nil {
			return out, err
		}
	}

	tx, err := entity.NewTransaction(input.Sender, input.Receiver, input.Amount, input.Reason)
	if err != nil {
		uc.logger.WarnContext(ctx, "create transaction validation failed", slog.String("reason", err.Error()))
		return nil, apperrors.BadRequest(apperrors.WithMessage(err.Error()), apperrors.WithError(err))
	}

	if input.IdempotencyKey != "" {
		tx.IdempotencyKey = &input.IdempotencyKey
	}

	outbox, err := entity.NewTransferRequestedOutbox(tx)
	if err != nil {
		return nil, apperrors.Unexpected(apperrors.WithError(err))
	}

	if err := uc.repo.Create(ctx, tx, outbox); err != nil {
		if errors.Is(err, entity.ErrDuplicateIdempotency) {
			// A concurrent request with the same key won the insert.
			out, findErr := uc.findExisting(ctx, input)
			if findErr != nil {
				return nil, findErr
			}
			if out != nil {
				return out, nil
			}
		}
		uc.logger.ErrorContext(ctx, "create transaction failed", slog.String("error", err.Error()))
		return nil, apperrors.Unexpected(apperrors.WithError(err))
	}

	uc.logger.InfoContext(ctx, "transaction created",
		slog.String("transaction_id", tx.ID),
		slog.Int64("sender", tx.Sender),
		slog.Int64("receiver", tx.Receiver),
		slog.Int64("amount", tx.Amount),
	)

	return &CreateOutput{
		ID:     tx.ID,
		Status: string(tx.Status),
	}, nil
}

// findExisting returns the transaction already stored under the request's
// idempotency key. Reusing a key for a different transfer is a conflict.
func (uc *CreateTransactionUseCase) findExisting(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	existing, err := uc.repo.FindByIdempotencyKey(ctx, input.IdempotencyKey)
	if err != nil {
		return nil, apperrors.Unexpected(apperrors.WithError(err))
	}
	if existing == nil {
		return nil, nil
	}
	if existing.Sender != input.Sender || existing.Receiver != input.Receiver ||
		existing.Amount != input.Amount || existing.Reason != input.Reason {
		uc.logger.WarnContext(ctx, "idempotency key reused with a different request",
			slog.String("transaction_id", existing.ID),
		)
		return nil, apperrors.Conflict(apperrors.WithMessage("idempotency key already used for a different transaction"))
	}
	return &CreateOutput{
		ID:         existing.ID,
		Status:     string(existing.Status),
		Idempotent: true,
	}, nil
}
