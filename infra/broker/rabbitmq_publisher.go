package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
)

const returnBuffer = 16

// ErrUnroutable means the broker had no queue bound for the event's topic
// and handed the message back.
var ErrUnroutable = errors.New("message returned unroutable")

// RabbitMQPublisher routes each event to the exchange with its topic as the
// routing key and waits for the broker to confirm it. Publishes are mandatory:
// a message that reaches no queue is reported as a failure, not as delivered.
type RabbitMQPublisher struct {
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
	returns  <-chan amqp.Return
}

func NewRabbitMQPublisher(ch *amqp.Channel, exchange string) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		channel:  ch,
		exchange: exchange,
		returns:  ch.NotifyReturn(make(chan amqp.Return, returnBuffer)),
	}
}

// Publish holds the channel until the confirm arrives. The broker sends
// basic.return before basic.ack, so any return for this message is already
// buffered once the confirm resolves.
func (p *RabbitMQPublisher) Publish(ctx context.Context, event *entity.Outbox) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	confirm, err := p.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		p.exchange,
		event.Topic,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         []byte(event.Payload),
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Timestamp:    time.Now().UTC(),
			Headers: amqp.Table{
				"event_type": event.Type,
				"event_key":  event.Key,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}

	if confirm != nil {
		acked, err := confirm.WaitContext(ctx)
		if err != nil {
			return fmt.Errorf("confirm event %s: %w", event.ID, err)
		}
		if !acked {
			return fmt.Errorf("event %s nacked by broker", event.ID)
		}
	}

	if ret, ok := takeReturn(p.returns, event.ID); ok {
		return fmt.Errorf("event %s on %s: %w (%d %s)", event.ID, event.Topic, ErrUnroutable, ret.ReplyCode, ret.ReplyText)
	}
	return nil
}

// takeReturn drains the buffered returns and reports the one for messageID,
// if any. Returns for other ids belong to publishes that already failed their
// confirm wait and are discarded.
func takeReturn(returns <-chan amqp.Return, messageID string) (amqp.Return, bool) {
	var (
		found amqp.Return
		ok    bool
	)
	for {
		select {
		case ret, open := <-returns:
			if !open {
				return found, ok
			}
			if ret.MessageId == messageID {
				found, ok = ret, true
			}
		default:
			return found, ok
		}
	}
}
