package broker

import (
	"context"
	"sync"
	"time"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

// MemoryBus is an in-process event bus with consumer-group semantics. Each
// topic keeps its full history; a group joining late starts from the first
// event. A message whose handler fails is put back at the tail of the
// group's queue after the redelivery delay.
type MemoryBus struct {
	mu              sync.Mutex
	topics          map[string]*memoryTopic
	copies          int
	concurrency     int
	redeliveryDelay time.Duration
}

type memoryTopic struct {
	history []ports.Message
	groups  map[string]*memoryGroup
}

type memoryGroup struct {
	mu     sync.Mutex
	queue  []ports.Message
	notify chan struct{}
}

type MemoryOption func(*MemoryBus)

// WithDuplicateDelivery hands every published message to each group n times.
func WithDuplicateDelivery(n int) MemoryOption {
	return func(b *MemoryBus) {
		if n > 0 {
			b.copies = n
		}
	}
}

// WithConcurrency sets how many handlers of one subscription run at once.
func WithConcurrency(n int) MemoryOption {
	return func(b *MemoryBus) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

func WithRedeliveryDelay(d time.Duration) MemoryOption {
	return func(b *MemoryBus) {
		b.redeliveryDelay = d
	}
}

func NewMemoryBus(opts ...MemoryOption) *MemoryBus {
	b := &MemoryBus{
		topics:          make(map[string]*memoryTopic),
		copies:          1,
		concurrency:     1,
		redeliveryDelay: 10 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *MemoryBus) Publish(ctx context.Context, event *entity.Outbox) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := ports.Message{
		ID:      event.ID,
		Topic:   event.Topic,
		Key:     event.Key,
		Payload: []byte(event.Payload),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.topic(event.Topic)
	for i := 0; i < b.copies; i++ {
		t.history = append(t.history, msg)
		for _, g := range t.groups {
			g.push(msg)
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, topic, group string, handler ports.MessageHandler) error {
	g := b.join(topic, group)

	var wg sync.WaitGroup
	for i := 0; i < b.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.consume(ctx, g, handler)
		}()
	}
	wg.Wait()
	return nil
}

func (b *MemoryBus) consume(ctx context.Context, g *memoryGroup, handler ports.MessageHandler) {
	for {
		msg, ok := g.pop(ctx)
		if !ok {
			return
		}
		if err := handler(ctx, msg); err != nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(b.redeliveryDelay):
			}
			g.push(msg)
		}
	}
}

func (b *MemoryBus) topic(name string) *memoryTopic {
	t, ok := b.topics[name]
	if !ok {
		t = &memoryTopic{groups: make(map[string]*memoryGroup)}
		b.topics[name] = t
	}
	return t
}

func (b *MemoryBus) join(topic, group string) *memoryGroup {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.topic(topic)
	g, ok := t.groups[group]
	if !ok {
		g = &memoryGroup{notify: make(chan struct{}, 1)}
		for _, msg := range t.history {
			g.push(msg)
		}
		t.groups[group] = g
	}
	return g
}

func (g *memoryGroup) push(msg ports.Message) {
	g.mu.Lock()
	g.queue = append(g.queue, msg)
	g.mu.Unlock()

	select {
	case g.notify <- struct{}{}:
	default:
	}
}

func (g *memoryGroup) pop(ctx context.Context) (ports.Message, bool) {
	for {
		g.mu.Lock()
		if len(g.queue) > 0 {
			msg := g.queue[0]
			g.queue = g.queue[1:]
			more := len(g.queue) > 0
			g.mu.Unlock()
			if more {
				// Wake another consumer of the same group.
				select {
				case g.notify <- struct{}{}:
				default:
				}
			}
			return msg, true
		}
		g.mu.Unlock()

		select {
		case <-ctx.Done():
			return ports.Message{}, false
		case <-g.notify:
		}
	}
}
