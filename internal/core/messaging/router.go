package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

const (
	resultHandled      = "handled"
	resultRetried      = "retry_exhausted"
	resultDeadLettered = "dead_lettered"
)

var (
	messagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_saga",
			Name:      "messages_total",
			Help:      "Messages consumed by topic, consumer group and result.",
		},
		[]string{"topic", "group", "result"},
	)

	messageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wallet_saga",
			Name:      "message_duration_seconds",
			Help:      "Time spent handling a message, retries included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"topic", "group"},
	)
)

type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type Subscription struct {
	Topic   string
	Group   string
	Handler ports.MessageHandler
}

// Router is the table of subscriptions a service consumes. Every handler is
// wrapped with in-process retries; a message rejected as permanently invalid
// is written to the dead-letter store and acknowledged, while one that still
// fails after the last retry is handed back to the bus for redelivery.
type Router struct {
	subscriber  ports.EventSubscriber
	deadLetters ports.DeadLetterStore
	policy      RetryPolicy
	logger      *slog.Logger
	routes      []Subscription
}

func NewRouter(subscriber ports.EventSubscriber, deadLetters ports.DeadLetterStore, policy RetryPolicy, logger *slog.Logger) *Router {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Router{
		subscriber:  subscriber,
		deadLetters: deadLetters,
		policy:      policy,
		logger:      logger,
	}
}

func (r *Router) Handle(topic, group string, handler ports.MessageHandler) {
	r.routes = append(r.routes, Subscription{Topic: topic, Group: group, Handler: handler})
}

func (r *Router) Routes() []Subscription {
	return r.routes
}

// Run consumes every registered subscription until ctx is done or one of
// them fails.
func (r *Router) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range r.routes {
		g.Go(func() error {
			r.logger.InfoContext(ctx, "subscription started",
				slog.String("topic", s.Topic),
				slog.String("group", s.Group),
			)
			if err := r.subscriber.Subscribe(ctx, s.Topic, s.Group, r.wrap(s)); err != nil {
				return fmt.Errorf("subscription %s/%s: %w", s.Group, s.Topic, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *Router) wrap(s Subscription) ports.MessageHandler {
	return func(ctx context.Context, msg ports.Message) error {
		start := time.Now()
		defer func() {
			messageDuration.WithLabelValues(s.Topic, s.Group).Observe(time.Since(start).Seconds())
		}()

		var (
			attempts  int
			permanent bool
		)
		err := backoff.Retry(func() error {
			attempts++
			err := s.Handler(ctx, msg)
			var perm *backoff.PermanentError
			if errors.As(err, &perm) {
				permanent = true
			}
			return err
		}, r.backOff(ctx))

		if err == nil {
			messagesTotal.WithLabelValues(s.Topic, s.Group, resultHandled).Inc()
			return nil
		}

		if permanent {
			return r.deadLetter(ctx, s, msg, err, attempts)
		}

		messagesTotal.WithLabelValues(s.Topic, s.Group, resultRetried).Inc()
		r.logger.ErrorContext(ctx, "message handling failed, leaving for redelivery",
			slog.String("topic", s.Topic),
			slog.String("group", s.Group),
			slog.String("message_id", msg.ID),
			slog.Int("attempts", attempts),
			slog.String("error", err.Error()),
		)
		return err
	}
}

func (r *Router) deadLetter(ctx context.Context, s Subscription, msg ports.Message, cause error, attempts int) error {
	letter := ports.DeadLetter{
		ID:       msg.ID,
		Topic:    s.Topic,
		Group:    s.Group,
		Key:      msg.Key,
		Payload:  string(msg.Payload),
		Error:    cause.Error(),
		Attempts: attempts,
		FailedAt: time.Now().UTC(),
	}
	if err := r.deadLetters.Record(ctx, letter); err != nil {
		// Without a durable record the message must not be acknowledged.
		return fmt.Errorf("record dead letter: %w", err)
	}

	messagesTotal.WithLabelValues(s.Topic, s.Group, resultDeadLettered).Inc()
	r.logger.WarnContext(ctx, "message dead-lettered",
		slog.String("topic", s.Topic),
		slog.String("group", s.Group),
		slog.String("message_id", msg.ID),
		slog.String("error", cause.Error()),
	)
	return nil
}

func (r *Router) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(r.policy.InitialInterval),
		backoff.WithMaxInterval(r.policy.MaxInterval),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.policy.MaxAttempts-1)), ctx)
}

type validator interface {
	Validate() error
}

// Decode unmarshals and validates a payload. Both failures are permanent:
// redelivering the same bytes cannot fix them.
func Decode[T validator](msg ports.Message) (T, error) {
	var event T
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return event, backoff.Permanent(fmt.Errorf("decode %s payload: %w", msg.Topic, err))
	}
	if err := event.Validate(); err != nil {
		return event, backoff.Permanent(err)
	}
	return event, nil
}
