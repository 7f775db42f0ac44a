package ports

import (
	"context"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
)

type TransactionRepository interface {
	// Create stores a new transaction together with the outbox event that
	// requests its transfer, atomically.
	Create(ctx context.Context, tx *entity.Transaction, outbox *entity.Outbox) error
	FindByID(ctx context.Context, id string) (*entity.Transaction, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*entity.Transaction, error)
	// Complete persists tx's terminal status and the outbox event only if the
	// stored transaction is still PENDING. It returns false when another
	// delivery already finalized it.
	Complete(ctx context.Context, tx *entity.Transaction, outbox *entity.Outbox) (bool, error)
}
