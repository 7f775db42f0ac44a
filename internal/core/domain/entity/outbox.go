package entity

import (
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusProcessed  OutboxStatus = "PROCESSED"
)

// Outbox is an event waiting to be published. It is written in the same
// atomic unit as the state change that produced it.
type Outbox struct {
	ID            string
	Type          string
	Topic         string
	Key           string
	Payload       string
	Status        OutboxStatus
	Attempts      int
	NextAttemptAt time.Time
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

func NewOutbox(eventType, topic, key, payload string) *Outbox {
	now := time.Now().UTC()
	return &Outbox{
		ID:            uuid.NewString(),
		Type:          eventType,
		Topic:         topic,
		Key:           key,
		Payload:       payload,
		Status:        OutboxStatusPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
}
