package ports

import (
	"context"
	"time"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
)

type OutboxRepository interface {
	// FetchPending claims up to limit due events and marks them PROCESSING.
	FetchPending(ctx context.Context, limit int) ([]*entity.Outbox, error)
	MarkProcessed(ctx context.Context, id string) error
	// MarkForRetry releases a claimed event so it is picked up again at next.
	MarkForRetry(ctx context.Context, id string, next time.Time) error
}
