package broker

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeKind = "topic"

type RabbitMQ struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
	URL        string
	Exchange   string
}

func NewRabbitMQ(url, exchange string) *RabbitMQ {
	return &RabbitMQ{URL: url, Exchange: exchange}
}

// Connect dials the broker, opens the publishing channel in confirm mode and
// declares the durable topic exchange every topic is routed through.
func (r *RabbitMQ) Connect() error {
	conn, err := amqp.Dial(r.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq confirm mode: %w", err)
	}

	if err := ch.ExchangeDeclare(r.Exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("declare exchange %s: %w", r.Exchange, err)
	}

	r.Connection = conn
	r.Channel = ch

	return nil
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		r.Channel.Close()
	}
	if r.Connection != nil {
		r.Connection.Close()
	}
}
