package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/worker"
)

type stubOutboxRepo struct {
	fetchFn     func(ctx context.Context, limit int) ([]*entity.Outbox, error)
	processed   []string
	retried     map[string]time.Time
	markRetryFn func(id string) error
}

func (s *stubOutboxRepo) FetchPending(ctx context.Context, limit int) ([]*entity.Outbox, error) {
	if s.fetchFn != nil {
		return s.fetchFn(ctx, limit)
	}
	return nil, nil
}

func (s *stubOutboxRepo) MarkProcessed(_ context.Context, id string) error {
	s.processed = append(s.processed, id)
	return nil
}

func (s *stubOutboxRepo) MarkForRetry(_ context.Context, id string, next time.Time) error {
	if s.retried == nil {
		s.retried = make(map[string]time.Time)
	}
	s.retried[id] = next
	if s.markRetryFn != nil {
		return s.markRetryFn(id)
	}
	return nil
}

type stubPublisher struct {
	publishFn func(ctx context.Context, event *entity.Outbox) error
	published []*entity.Outbox
}

func (s *stubPublisher) Publish(ctx context.Context, event *entity.Outbox) error {
	if s.publishFn != nil {
		if err := s.publishFn(ctx, event); err != nil {
			return err
		}
	}
	s.published = append(s.published, event)
	return nil
}

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func batch(events ...*entity.Outbox) func(context.Context, int) ([]*entity.Outbox, error) {
	return func(context.Context, int) ([]*entity.Outbox, error) { return events, nil }
}

func TestOutboxWorker_PublishesAndMarksProcessed(t *testing.T) {
	e1 := entity.NewOutbox(entity.EventTransferRequested, entity.TopicTransferRequested, "tx-1", "{}")
	e2 := entity.NewOutbox(entity.EventTransferRequested, entity.TopicTransferRequested, "tx-2", "{}")
	repo := &stubOutboxRepo{fetchFn: batch(e1, e2)}
	pub := &stubPublisher{}

	w := worker.NewOutboxWorker(repo, pub, worker.Options{Interval: time.Second}, logger)
	n := w.Process(context.Background())

	if n != 2 {
		t.Fatalf("expected 2 published, got %d", n)
	}
	if len(repo.processed) != 2 || repo.processed[0] != e1.ID || repo.processed[1] != e2.ID {
		t.Fatalf("unexpected processed ids %v", repo.processed)
	}
}

func TestOutboxWorker_FailedPublishIsRescheduled(t *testing.T) {
	ok := entity.NewOutbox(entity.EventTransferSettled, entity.TopicTransferSettled, "tx-1", "{}")
	bad := entity.NewOutbox(entity.EventTransferSettled, entity.TopicTransferSettled, "tx-2", "{}")
	bad.Attempts = 2

	repo := &stubOutboxRepo{fetchFn: batch(bad, ok)}
	pub := &stubPublisher{
		publishFn: func(_ context.Context, event *entity.Outbox) error {
			if event.ID == bad.ID {
				return errors.New("broker unavailable")
			}
			return nil
		},
	}

	w := worker.NewOutboxWorker(repo, pub, worker.Options{
		Interval:     time.Second,
		RetryInitial: time.Second,
		RetryMax:     time.Minute,
	}, logger)

	before := time.Now()
	n := w.Process(context.Background())

	if n != 1 {
		t.Fatalf("expected 1 published, got %d", n)
	}
	next, found := repo.retried[bad.ID]
	if !found {
		t.Fatal("expected failed event to be rescheduled")
	}
	// Third attempt waits 1s * 2^2.
	if d := next.Sub(before); d < 4*time.Second || d > 5*time.Second {
		t.Fatalf("expected ~4s backoff, got %s", d)
	}
	if len(repo.processed) != 1 || repo.processed[0] != ok.ID {
		t.Fatalf("a failure must not block the rest of the batch: %v", repo.processed)
	}
}

func TestOutboxWorker_RetryDelayIsCapped(t *testing.T) {
	bad := entity.NewOutbox(entity.EventTransferSettled, entity.TopicTransferSettled, "tx-1", "{}")
	bad.Attempts = 40
	repo := &stubOutboxRepo{fetchFn: batch(bad)}
	pub := &stubPublisher{publishFn: func(context.Context, *entity.Outbox) error { return errors.New("down") }}

	w := worker.NewOutboxWorker(repo, pub, worker.Options{
		Interval:     time.Second,
		RetryInitial: time.Second,
		RetryMax:     10 * time.Second,
	}, logger)

	before := time.Now()
	w.Process(context.Background())

	if d := repo.retried[bad.ID].Sub(before); d > 11*time.Second {
		t.Fatalf("expected delay capped at 10s, got %s", d)
	}
}

func TestOutboxWorker_FetchErrorPublishesNothing(t *testing.T) {
	repo := &stubOutboxRepo{
		fetchFn: func(context.Context, int) ([]*entity.Outbox, error) { return nil, errors.New("db down") },
	}
	pub := &stubPublisher{}
	w := worker.NewOutboxWorker(repo, pub, worker.Options{Interval: time.Second}, logger)

	if n := w.Process(context.Background()); n != 0 {
		t.Fatalf("expected nothing published, got %d", n)
	}
	if len(pub.published) != 0 {
		t.Fatal("publisher must not be called")
	}
}

func TestOutboxWorker_RunStopsOnCancel(t *testing.T) {
	repo := &stubOutboxRepo{}
	w := worker.NewOutboxWorker(repo, &stubPublisher{}, worker.Options{Interval: 10 * time.Millisecond}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
