package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
)

type TransactionRepository struct {
	mu           sync.Mutex
	transactions map[string]*entity.Transaction
	idempotency  map[string]string
	outbox       *OutboxRepository
}

func NewTransactionRepository(outbox *OutboxRepository) *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]*entity.Transaction),
		idempotency:  make(map[string]string),
		outbox:       outbox,
	}
}

func (r *TransactionRepository) Create(_ context.Context, tx *entity.Transaction, outbox *entity.Outbox) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tx.IdempotencyKey != nil {
		if _, ok := r.idempotency[*tx.IdempotencyKey]; ok {
			return entity.ErrDuplicateIdempotency
		}
		r.idempotency[*tx.IdempotencyKey] = tx.ID
	}

	r.transactions[tx.ID] = cloneTransaction(tx)
	r.outbox.add(outbox)
	return nil
}

func (r *TransactionRepository) FindByID(_ context.Context, id string) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	return cloneTransaction(tx), nil
}

func (r *TransactionRepository) FindByIdempotencyKey(_ context.Context, key string) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.idempotency[key]
	if !ok {
		return nil, nil
	}
	return cloneTransaction(r.transactions[id]), nil
}

func (r *TransactionRepository) Complete(_ context.Context, tx *entity.Transaction, outbox *entity.Outbox) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.transactions[tx.ID]
	if !ok {
		return false, entity.ErrTransactionNotFound
	}
	if stored.Status != entity.StatusPending {
		return false, nil
	}

	stored.Status = tx.Status
	stored.UpdatedAt = time.Now().UTC()
	r.outbox.add(outbox)
	return true, nil
}

func cloneTransaction(tx *entity.Transaction) *entity.Transaction {
	cp := *tx
	if tx.IdempotencyKey != nil {
		key := *tx.IdempotencyKey
		cp.IdempotencyKey = &key
	}
	return &cp
}
