package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

type PostgresWalletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) *PostgresWalletRepository {
	return &PostgresWalletRepository{db: db}
}

func (r *PostgresWalletRepository) FindByOwner(ctx context.Context, owner int64) (*entity.Wallet, error) {
	const query = `
		SELECT id, owner_id, balance, status, created_at, updated_at
		FROM wallets
		WHERE owner_id = $1
	`
	var w entity.Wallet
	err := r.db.QueryRowContext(ctx, query, owner).Scan(
		&w.ID, &w.Owner, &w.Balance, &w.Status, &w.CreatedAt, &w.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find wallet: %w", err)
	}
	return &w, nil
}

func (r *PostgresWalletRepository) CreateIfAbsent(ctx context.Context, wallet *entity.Wallet) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO wallets (id, owner_id, balance, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id) DO NOTHING
	`, wallet.ID, wallet.Owner, wallet.Balance, string(wallet.Status), wallet.CreatedAt, wallet.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("insert wallet: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetBalance implements ports.BalanceReader for the wallet service's own
// balance endpoints.
func (r *PostgresWalletRepository) GetBalance(ctx context.Context, owner int64) (int64, error) {
	w, err := r.FindByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}
	if w == nil {
		return 0, entity.ErrWalletNotFound
	}
	return w.Balance, nil
}

// ApplyTransfer locks both wallet rows in owner order before calling fn, so
// crossing transfers queue behind each other instead of deadlocking. The
// transfer record insert is the final idempotency guard: a concurrent
// delivery that already committed makes it a no-op and the whole unit rolls
// back.
func (r *PostgresWalletRepository) ApplyTransfer(ctx context.Context, externalTxnID string, sender, receiver int64, fn ports.TransferFunc) (*entity.Transfer, error) {
	dbTx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = dbTx.Rollback() }()

	var applied bool
	if err := dbTx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM wallet_transfers WHERE external_txn_id = $1)`, externalTxnID,
	).Scan(&applied); err != nil {
		return nil, fmt.Errorf("check transfer: %w", err)
	}
	if applied {
		return nil, entity.ErrTransferAlreadyApplied
	}

	wallets, err := lockWallets(ctx, dbTx, sender, receiver)
	if err != nil {
		return nil, err
	}

	transfer, outbox, err := fn(wallets[sender], wallets[receiver])
	if err != nil {
		return nil, err
	}

	if transfer.Succeeded() {
		for _, owner := range []int64{sender, receiver} {
			w := wallets[owner]
			if _, err := dbTx.ExecContext(ctx,
				`UPDATE wallets SET balance = $1, updated_at = $2 WHERE owner_id = $3`,
				w.Balance, time.Now().UTC(), w.Owner,
			); err != nil {
				return nil, fmt.Errorf("update wallet %d: %w", owner, err)
			}
		}
	}

	res, err := dbTx.ExecContext(ctx, `
		INSERT INTO wallet_transfers (external_txn_id, sender, receiver, amount, status, failure_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (external_txn_id) DO NOTHING
	`, transfer.ExternalTxnID, transfer.Sender, transfer.Receiver, transfer.Amount,
		string(transfer.Status), transfer.FailureReason, transfer.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert transfer: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, entity.ErrTransferAlreadyApplied
	}

	if err := insertOutbox(ctx, dbTx, outbox); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, err
	}
	return transfer, nil
}

func lockWallets(ctx context.Context, tx *sql.Tx, owners ...int64) (map[int64]*entity.Wallet, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, owner_id, balance, status, created_at, updated_at
		FROM wallets
		WHERE owner_id = ANY($1)
		ORDER BY owner_id
		FOR UPDATE
	`, pq.Array(owners))
	if err != nil {
		return nil, fmt.Errorf("lock wallets: %w", err)
	}
	defer rows.Close()

	wallets := make(map[int64]*entity.Wallet, len(owners))
	for rows.Next() {
		var w entity.Wallet
		if err := rows.Scan(&w.ID, &w.Owner, &w.Balance, &w.Status, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		wallets[w.Owner] = &w
	}
	return wallets, rows.Err()
}
