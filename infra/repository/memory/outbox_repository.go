package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
)

// claimLease is how long a claimed event stays invisible to other pollers
// before it is handed out again.
const claimLease = 30 * time.Second

type OutboxRepository struct {
	mu     sync.Mutex
	events map[string]*entity.Outbox
	now    func() time.Time
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{
		events: make(map[string]*entity.Outbox),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *OutboxRepository) add(e *entity.Outbox) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.events[e.ID] = &cp
}

// FetchPending claims due PENDING events, and PROCESSING events whose lease
// expired, oldest first.
func (r *OutboxRepository) FetchPending(_ context.Context, limit int) ([]*entity.Outbox, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var due []*entity.Outbox
	for _, e := range r.events {
		if e.Status == entity.OutboxStatusProcessed || e.NextAttemptAt.After(now) {
			continue
		}
		due = append(due, e)
	}
	sort.Slice(due, func(i, j int) bool { return due[i].CreatedAt.Before(due[j].CreatedAt) })
	if len(due) > limit {
		due = due[:limit]
	}

	claimed := make([]*entity.Outbox, 0, len(due))
	for _, e := range due {
		e.Status = entity.OutboxStatusProcessing
		e.NextAttemptAt = now.Add(claimLease)
		cp := *e
		claimed = append(claimed, &cp)
	}
	return claimed, nil
}

func (r *OutboxRepository) MarkProcessed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.events[id]; ok {
		now := r.now()
		e.Status = entity.OutboxStatusProcessed
		e.ProcessedAt = &now
	}
	return nil
}

func (r *OutboxRepository) MarkForRetry(_ context.Context, id string, next time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.events[id]; ok && e.Status != entity.OutboxStatusProcessed {
		e.Status = entity.OutboxStatusPending
		e.Attempts++
		e.NextAttemptAt = next
	}
	return nil
}

// Snapshot returns a copy of every stored event, oldest first.
func (r *OutboxRepository) Snapshot() []entity.Outbox {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.Outbox, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
