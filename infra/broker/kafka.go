package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

// KafkaPublisher writes every event to its topic, keyed by the event key so
// all events of one transaction land on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			Async:                  false,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *entity.Outbox) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: event.Topic,
		Key:   []byte(event.Key),
		Value: []byte(event.Payload),
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KafkaSubscriber reads a topic as a consumer group. Offsets are committed
// only after the handler succeeds; a failing message is retried in place
// because committing past it would lose it.
type KafkaSubscriber struct {
	brokers     []string
	concurrency int
	logger      *slog.Logger
}

func NewKafkaSubscriber(brokers []string, concurrency int, logger *slog.Logger) *KafkaSubscriber {
	if concurrency < 1 {
		concurrency = 1
	}
	return &KafkaSubscriber{brokers: brokers, concurrency: concurrency, logger: logger}
}

// Subscribe runs one group member per unit of concurrency; the group
// coordinator spreads the topic's partitions across them.
func (s *KafkaSubscriber) Subscribe(ctx context.Context, topic, group string, handler ports.MessageHandler) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < s.concurrency; i++ {
		g.Go(func() error {
			return s.consume(ctx, topic, group, handler)
		})
	}
	return g.Wait()
}

func (s *KafkaSubscriber) consume(ctx context.Context, topic, group string, handler ports.MessageHandler) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  s.brokers,
		GroupID:  group,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	s.logger.InfoContext(ctx, "kafka consumer started",
		slog.String("topic", topic),
		slog.String("group", group),
	)

	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch %s: %w", topic, err)
		}

		msg := ports.Message{
			ID:      headerValue(m.Headers, "event_id"),
			Topic:   m.Topic,
			Key:     string(m.Key),
			Payload: m.Value,
		}

		redeliver := backoff.WithContext(backoff.NewExponentialBackOff(backoff.WithMaxElapsedTime(0)), ctx)
		err = backoff.Retry(func() error {
			if err := handler(ctx, msg); err != nil {
				s.logger.WarnContext(ctx, "message redelivered",
					slog.String("topic", topic),
					slog.Int64("offset", m.Offset),
					slog.String("error", err.Error()),
				)
				return err
			}
			return nil
		}, redeliver)
		if err != nil {
			return nil
		}

		if err := reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit %s@%d: %w", topic, m.Offset, err)
		}
	}
}

func headerValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
