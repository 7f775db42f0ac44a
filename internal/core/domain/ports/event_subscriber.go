package ports

import "context"

// Message is a single delivery from the event bus. The same logical event may
// be delivered more than once.
type Message struct {
	ID      string
	Topic   string
	Key     string
	Payload []byte
}

// MessageHandler processes a delivery. A non-nil error leaves the message
// unacknowledged so the bus redelivers it.
type MessageHandler func(ctx context.Context, msg Message) error

type EventSubscriber interface {
	// Subscribe consumes topic as a member of group until ctx is done.
	Subscribe(ctx context.Context, topic, group string, handler MessageHandler) error
}
