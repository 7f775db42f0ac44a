package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

type SettleOutcome string

const (
	SettleApplied   SettleOutcome = "applied"
	SettleDuplicate SettleOutcome = "duplicate"
	SettleUnknown   SettleOutcome = "unknown"
)

type (
	SettleOutput struct {
		ID      string
		Status  entity.TransactionStatus
		Outcome SettleOutcome
	}

	SettleTransactionUseCase struct {
		repo   ports.TransactionRepository
		logger *slog.Logger
	}
)

func NewSettleTransactionUseCase(repo ports.TransactionRepository, logger *slog.Logger) *SettleTransactionUseCase {
	return &SettleTransactionUseCase{repo: repo, logger: logger}
}

// Execute finalizes the transaction named by a settlement event. Unknown ids
// and already-final transactions are dropped; only store failures are
// returned, so the message is redelivered.
func (uc *SettleTransactionUseCase) Execute(ctx context.Context, event entity.TransferSettled) (*SettleOutput, error) {
	tx, err := uc.repo.FindByID(ctx, event.ExternalTxnID)
	if err != nil {
		return nil, fmt.Errorf("find transaction %s: %w", event.ExternalTxnID, err)
	}

	if tx == nil {
		uc.logger.WarnContext(ctx, "settlement for unknown transaction dropped",
			slog.String("transaction_id", event.ExternalTxnID),
			slog.String("status", string(event.Status)),
		)
		return &SettleOutput{ID: event.ExternalTxnID, Outcome: SettleUnknown}, nil
	}

	if err := tx.Settle(event.Status); err != nil {
		uc.logger.WarnContext(ctx, "transaction already reached terminal state",
			slog.String("transaction_id", tx.ID),
			slog.String("status", string(tx.Status)),
		)
		return &SettleOutput{ID: tx.ID, Status: tx.Status, Outcome: SettleDuplicate}, nil
	}

	outbox, err := entity.NewTransferCompletedOutbox(tx)
	if err != nil {
		return nil, err
	}

	updated, err := uc.repo.Complete(ctx, tx, outbox)
	if err != nil {
		return nil, fmt.Errorf("complete transaction %s: %w", tx.ID, err)
	}

	if !updated {
		uc.logger.WarnContext(ctx, "transaction finalized by a concurrent delivery",
			slog.String("transaction_id", tx.ID),
		)
		return &SettleOutput{ID: tx.ID, Outcome: SettleDuplicate}, nil
	}

	uc.logger.InfoContext(ctx, "transaction settled",
		slog.String("transaction_id", tx.ID),
		slog.String("status", string(tx.Status)),
	)

	return &SettleOutput{ID: tx.ID, Status: tx.Status, Outcome: SettleApplied}, nil
}
