package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
)

const uniqueViolation = "23505"

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

func (r *PostgresTransactionRepository) Create(ctx context.Context, tx *entity.Transaction, outbox *entity.Outbox) error {
	dbTx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = dbTx.Rollback() }()

	const insertTx = `
		INSERT INTO transactions (id, sender, receiver, amount, reason, status, idempotency_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := dbTx.ExecContext(ctx, insertTx,
		tx.ID, tx.Sender, tx.Receiver, tx.Amount, tx.Reason, string(tx.Status),
		tx.IdempotencyKey, tx.CreatedAt, tx.UpdatedAt,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && tx.IdempotencyKey != nil {
			return entity.ErrDuplicateIdempotency
		}
		return fmt.Errorf("insert transaction: %w", err)
	}

	if err := insertOutbox(ctx, dbTx, outbox); err != nil {
		return err
	}

	return dbTx.Commit()
}

const selectTransaction = `
	SELECT id, sender, receiver, amount, reason, status, idempotency_key, created_at, updated_at
	FROM transactions
`

func (r *PostgresTransactionRepository) FindByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.findOne(ctx, selectTransaction+`WHERE id = $1`, id)
}

func (r *PostgresTransactionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entity.Transaction, error) {
	return r.findOne(ctx, selectTransaction+`WHERE idempotency_key = $1`, key)
}

func (r *PostgresTransactionRepository) findOne(ctx context.Context, query string, arg any) (*entity.Transaction, error) {
	var (
		tx  entity.Transaction
		key sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&tx.ID, &tx.Sender, &tx.Receiver, &tx.Amount, &tx.Reason,
		&tx.Status, &key, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	if key.Valid {
		tx.IdempotencyKey = &key.String
	}
	return &tx, nil
}

// Complete only moves a row that is still PENDING, so two deliveries of the
// same settlement cannot both emit a completion event.
func (r *PostgresTransactionRepository) Complete(ctx context.Context, tx *entity.Transaction, outbox *entity.Outbox) (bool, error) {
	dbTx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return false, err
	}
	defer func() { _ = dbTx.Rollback() }()

	res, err := dbTx.ExecContext(ctx, `
		UPDATE transactions SET status = $1, updated_at = $2
		WHERE id = $3 AND status = 'PENDING'
	`, string(tx.Status), time.Now().UTC(), tx.ID)
	if err != nil {
		return false, fmt.Errorf("update transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	if err := insertOutbox(ctx, dbTx, outbox); err != nil {
		return false, err
	}

	return true, dbTx.Commit()
}
