package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

var outboxEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "wallet_saga",
		Name:      "outbox_events_total",
		Help:      "Outbox events handled by the worker, by topic and result.",
	},
	[]string{"topic", "result"},
)

type Options struct {
	Interval       time.Duration
	BatchSize      int
	PublishTimeout time.Duration
	RetryInitial   time.Duration
	RetryMax       time.Duration
}

// OutboxWorker publishes stored events. An event that fails to publish is
// rescheduled with exponential backoff and never dropped.
type OutboxWorker struct {
	outboxRepo ports.OutboxRepository
	publisher  ports.EventPublisher
	opts       Options
	logger     *slog.Logger
}

func NewOutboxWorker(
	outboxRepo ports.OutboxRepository,
	publisher ports.EventPublisher,
	opts Options,
	logger *slog.Logger,
) *OutboxWorker {
	if opts.Interval <= 0 {
		opts.Interval = 500 * time.Millisecond
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = 5 * time.Second
	}
	if opts.RetryInitial <= 0 {
		opts.RetryInitial = time.Second
	}
	if opts.RetryMax < opts.RetryInitial {
		opts.RetryMax = opts.RetryInitial
	}
	return &OutboxWorker{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		opts:       opts,
		logger:     logger,
	}
}

func (w *OutboxWorker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "outbox worker started", slog.Duration("interval", w.opts.Interval))
	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "outbox worker stopped")
			return nil
		case <-ticker.C:
			w.Process(ctx)
		}
	}
}

// Process publishes one batch of due events and returns how many were
// published.
func (w *OutboxWorker) Process(ctx context.Context) int {
	events, err := w.outboxRepo.FetchPending(ctx, w.opts.BatchSize)
	if err != nil {
		w.logger.ErrorContext(ctx, "failed to fetch pending events", slog.String("error", err.Error()))
		return 0
	}

	if len(events) == 0 {
		return 0
	}

	w.logger.DebugContext(ctx, "processing outbox events", slog.Int("count", len(events)))

	published := 0
	for _, event := range events {
		if w.publish(ctx, event) {
			published++
		}
	}
	return published
}

func (w *OutboxWorker) publish(ctx context.Context, event *entity.Outbox) bool {
	pubCtx, cancel := context.WithTimeout(ctx, w.opts.PublishTimeout)
	defer cancel()

	if err := w.publisher.Publish(pubCtx, event); err != nil {
		next := time.Now().UTC().Add(w.retryDelay(event.Attempts))
		w.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("event_id", event.ID),
			slog.String("event_type", event.Type),
			slog.Int("attempts", event.Attempts+1),
			slog.Time("next_attempt_at", next),
			slog.String("error", err.Error()),
		)
		outboxEventsTotal.WithLabelValues(event.Topic, "retry").Inc()
		if err := w.outboxRepo.MarkForRetry(ctx, event.ID, next); err != nil {
			// The claim lease expires and the event is picked up again.
			w.logger.ErrorContext(ctx, "failed to reschedule event",
				slog.String("event_id", event.ID),
				slog.String("error", err.Error()),
			)
		}
		return false
	}

	outboxEventsTotal.WithLabelValues(event.Topic, "published").Inc()
	if err := w.outboxRepo.MarkProcessed(ctx, event.ID); err != nil {
		// Publishing again later is safe: every consumer is idempotent.
		w.logger.ErrorContext(ctx, "failed to mark event as processed",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
		return true
	}

	w.logger.InfoContext(ctx, "event published",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
		slog.String("topic", event.Topic),
	)
	return true
}

func (w *OutboxWorker) retryDelay(attempts int) time.Duration {
	d := w.opts.RetryInitial
	for i := 0; i < attempts && d < w.opts.RetryMax; i++ {
		d *= 2
	}
	if d > w.opts.RetryMax {
		d = w.opts.RetryMax
	}
	return d
}
