package ports

import (
	"context"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
)

type EventPublisher interface {
	Publish(ctx context.Context, event *entity.Outbox) error
}
