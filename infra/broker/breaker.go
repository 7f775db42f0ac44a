package broker

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

// BreakerPublisher stops hammering an unavailable broker: after a run of
// consecutive failures it rejects publishes immediately until the timeout
// elapses and a trial publish succeeds. Rejected events stay in the outbox.
type BreakerPublisher struct {
	next    ports.EventPublisher
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerPublisher(name string, next ports.EventPublisher, failures uint32, timeout time.Duration, logger *slog.Logger) *BreakerPublisher {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("publisher circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}
	return &BreakerPublisher{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (p *BreakerPublisher) Publish(ctx context.Context, event *entity.Outbox) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.next.Publish(ctx, event)
	})
	return err
}

func (p *BreakerPublisher) State() gobreaker.State {
	return p.breaker.State()
}
