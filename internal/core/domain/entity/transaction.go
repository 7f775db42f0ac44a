package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

var (
	ErrSenderRequired       = errors.New("sender is required")
	ErrReceiverRequired     = errors.New("receiver is required")
	ErrSameUser             = errors.New("sender and receiver cannot be the same")
	ErrAmountMustBePositive = errors.New("amount must be greater than zero")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrTransactionFinalized = errors.New("transaction already reached a terminal state")
	ErrDuplicateIdempotency = errors.New("idempotency key already used")
)

type Transaction struct {
	ID             string
	Sender         int64
	Receiver       int64
	Amount         int64
	Reason         string
	Status         TransactionStatus
	IdempotencyKey *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewTransaction(sender, receiver, amount int64, reason string) (*Transaction, error) {
	if sender <= 0 {
		return nil, ErrSenderRequired
	}
	if receiver <= 0 {
		return nil, ErrReceiverRequired
	}
	if sender == receiver {
		return nil, ErrSameUser
	}
	if amount <= 0 {
		return nil, ErrAmountMustBePositive
	}

	now := time.Now().UTC()
	return &Transaction{
		ID:        uuid.NewString(),
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		Reason:    reason,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Settle moves a PENDING transaction to the terminal state matching the
// settlement outcome. It refuses to touch a transaction that is already final.
func (t *Transaction) Settle(outcome SettlementStatus) error {
	if t.Status.IsTerminal() {
		return ErrTransactionFinalized
	}

	if outcome == SettlementSuccess {
		t.Status = StatusSuccess
	} else {
		t.Status = StatusFailed
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}
