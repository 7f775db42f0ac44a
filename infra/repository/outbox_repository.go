package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
)

// claimLease is how long a claimed event stays invisible to other workers.
// A worker that dies mid-batch releases its events when the lease runs out.
const claimLease = 30 * time.Second

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type PostgresOutboxRepository struct {
	db *sql.DB
}

func NewOutboxRepository(db *sql.DB) *PostgresOutboxRepository {
	return &PostgresOutboxRepository{db: db}
}

// FetchPending atomically claims due events and marks them PROCESSING using
// FOR UPDATE SKIP LOCKED, so concurrent workers never share a batch.
func (r *PostgresOutboxRepository) FetchPending(ctx context.Context, limit int) ([]*entity.Outbox, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	rows, err := tx.QueryContext(ctx, `
		SELECT id, type, topic, event_key, payload, attempts, created_at
		FROM outbox
		WHERE status <> 'PROCESSED' AND next_attempt_at <= $1
		ORDER BY created_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`, now, limit)
	if err != nil {
		return nil, err
	}

	var events []*entity.Outbox
	var ids []string

	for rows.Next() {
		var e entity.Outbox
		if err := rows.Scan(&e.ID, &e.Type, &e.Topic, &e.Key, &e.Payload, &e.Attempts, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		e.Status = entity.OutboxStatusProcessing
		e.NextAttemptAt = now.Add(claimLease)
		events = append(events, &e)
		ids = append(ids, e.ID)
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE outbox SET status = 'PROCESSING', next_attempt_at = $1
		WHERE id = ANY($2)
	`, now.Add(claimLease), pq.Array(ids)); err != nil {
		return nil, err
	}

	return events, tx.Commit()
}

func (r *PostgresOutboxRepository) MarkProcessed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE outbox SET status = 'PROCESSED', processed_at = $1 WHERE id = $2
	`, time.Now().UTC(), id)
	return err
}

func (r *PostgresOutboxRepository) MarkForRetry(ctx context.Context, id string, next time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE outbox SET status = 'PENDING', attempts = attempts + 1, next_attempt_at = $1
		WHERE id = $2 AND status <> 'PROCESSED'
	`, next.UTC(), id)
	return err
}

func insertOutbox(ctx context.Context, db execer, outbox *entity.Outbox) error {
	const query = `
		INSERT INTO outbox (id, type, topic, event_key, payload, status, attempts, next_attempt_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := db.ExecContext(ctx, query,
		outbox.ID, outbox.Type, outbox.Topic, outbox.Key, outbox.Payload,
		string(outbox.Status), outbox.Attempts, outbox.NextAttemptAt, outbox.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert outbox: %w", err)
	}
	return nil
}
