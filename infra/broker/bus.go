package broker

import (
	"fmt"
	"log/slog"

	"github.com/Rohitlovewanshi/Wallet-Management/config"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

// Bus bundles the publishing and consuming sides of one event bus driver.
type Bus struct {
	Publisher  ports.EventPublisher
	Subscriber ports.EventSubscriber
	close      func()
}

func (b *Bus) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects to the bus driver named in cfg.
func Open(cfg *config.Config, logger *slog.Logger) (*Bus, error) {
	switch cfg.Bus.Driver {
	case config.DriverRabbitMQ:
		rabbit := NewRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err := rabbit.Connect(); err != nil {
			return nil, err
		}
		return &Bus{
			Publisher:  NewRabbitMQPublisher(rabbit.Channel, rabbit.Exchange),
			Subscriber: NewRabbitMQSubscriber(rabbit, cfg.RabbitMQ.Prefetch, cfg.Bus.Concurrency, logger),
			close:      rabbit.Close,
		}, nil

	case config.DriverKafka:
		pub := NewKafkaPublisher(cfg.Kafka.Brokers)
		return &Bus{
			Publisher:  pub,
			Subscriber: NewKafkaSubscriber(cfg.Kafka.Brokers, cfg.Bus.Concurrency, logger),
			close:      func() { _ = pub.Close() },
		}, nil

	case config.DriverMemory:
		bus := NewMemoryBus(WithConcurrency(cfg.Bus.Concurrency))
		return &Bus{Publisher: bus, Subscriber: bus}, nil

	default:
		return nil, fmt.Errorf("unknown bus driver %q", cfg.Bus.Driver)
	}
}
