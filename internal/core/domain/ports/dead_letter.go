package ports

import (
	"context"
	"time"
)

type DeadLetter struct {
	ID       string    `json:"id"`
	Topic    string    `json:"topic"`
	Group    string    `json:"group"`
	Key      string    `json:"key"`
	Payload  string    `json:"payload"`
	Error    string    `json:"error"`
	Attempts int       `json:"attempts"`
	FailedAt time.Time `json:"failedAt"`
}

// DeadLetterStore keeps a durable record of messages that could not be
// processed, for later reconciliation.
type DeadLetterStore interface {
	Record(ctx context.Context, letter DeadLetter) error
	List(ctx context.Context, topic string, limit int) ([]DeadLetter, error)
}
