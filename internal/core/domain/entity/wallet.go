package entity

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

type WalletStatus string

const (
	WalletActive   WalletStatus = "ACTIVE"
	WalletInactive WalletStatus = "INACTIVE"
)

var (
	ErrOwnerRequired          = errors.New("owner is required")
	ErrNegativeBalance        = errors.New("starting balance cannot be negative")
	ErrWalletNotFound         = errors.New("wallet not found")
	ErrWalletInactive         = errors.New("wallet is not active")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrTransferAlreadyApplied = errors.New("transfer already applied")
	ErrBalanceOverflow        = errors.New("balance would exceed the maximum")
)

// Wallet balances are kept in minor currency units and never go below zero.
type Wallet struct {
	ID        string
	Owner     int64
	Balance   int64
	Status    WalletStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewWallet(owner, startingBalance int64) (*Wallet, error) {
	if owner <= 0 {
		return nil, ErrOwnerRequired
	}
	if startingBalance < 0 {
		return nil, ErrNegativeBalance
	}

	now := time.Now().UTC()
	return &Wallet{
		ID:        uuid.NewString(),
		Owner:     owner,
		Balance:   startingBalance,
		Status:    WalletActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (w *Wallet) Debit(amount int64) error {
	if amount <= 0 {
		return ErrAmountMustBePositive
	}
	if w.Balance < amount {
		return ErrInsufficientBalance
	}
	w.Balance -= amount
	w.UpdatedAt = time.Now().UTC()
	return nil
}

func (w *Wallet) Credit(amount int64) error {
	if amount <= 0 {
		return ErrAmountMustBePositive
	}
	if !w.CanCredit(amount) {
		return ErrBalanceOverflow
	}
	w.Balance += amount
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// CanCredit reports whether amount fits on top of the current balance.
func (w *Wallet) CanCredit(amount int64) bool {
	return w.Balance <= math.MaxInt64-amount
}
