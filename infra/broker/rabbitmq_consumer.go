package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

// RabbitMQSubscriber gives every consumer group its own durable queue bound
// to the topic, so replicas of one service share the work while different
// services each receive every event.
type RabbitMQSubscriber struct {
	conn        *amqp.Connection
	exchange    string
	prefetch    int
	concurrency int
	logger      *slog.Logger
}

func NewRabbitMQSubscriber(rabbit *RabbitMQ, prefetch, concurrency int, logger *slog.Logger) *RabbitMQSubscriber {
	if concurrency < 1 {
		concurrency = 1
	}
	return &RabbitMQSubscriber{
		conn:        rabbit.Connection,
		exchange:    rabbit.Exchange,
		prefetch:    prefetch,
		concurrency: concurrency,
		logger:      logger,
	}
}

func QueueName(group, topic string) string {
	return group + "." + topic
}

func (s *RabbitMQSubscriber) Subscribe(ctx context.Context, topic, group string, handler ports.MessageHandler) error {
	ch, err := s.conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(s.prefetch, 0, false); err != nil {
		return fmt.Errorf("rabbitmq qos: %w", err)
	}

	queue := QueueName(group, topic)
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, topic, s.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", queue, err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	s.logger.InfoContext(ctx, "rabbitmq consumer started",
		slog.String("queue", queue),
		slog.Int("concurrency", s.concurrency),
	)

	var (
		wg     sync.WaitGroup
		closed = make(chan struct{})
		once   sync.Once
	)
	for i := 0; i < s.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						once.Do(func() { close(closed) })
						return
					}
					s.deliver(ctx, topic, d, handler)
				}
			}
		}()
	}
	wg.Wait()

	select {
	case <-closed:
		if ctx.Err() == nil {
			return errors.New("rabbitmq delivery channel closed")
		}
	default:
	}
	return nil
}

func (s *RabbitMQSubscriber) deliver(ctx context.Context, topic string, d amqp.Delivery, handler ports.MessageHandler) {
	key, _ := d.Headers["event_key"].(string)
	msg := ports.Message{
		ID:      d.MessageId,
		Topic:   topic,
		Key:     key,
		Payload: d.Body,
	}

	if err := handler(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "message requeued",
			slog.String("topic", topic),
			slog.String("message_id", d.MessageId),
			slog.String("error", err.Error()),
		)
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}
