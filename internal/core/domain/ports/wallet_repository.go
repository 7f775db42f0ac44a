package ports

import (
	"context"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
)

// TransferFunc decides the outcome of a transfer while the store holds
// exclusive locks on both wallets. A nil wallet means it does not exist.
// Wallets are persisted only when the returned transfer succeeded.
type TransferFunc func(sender, receiver *entity.Wallet) (*entity.Transfer, *entity.Outbox, error)

type WalletRepository interface {
	FindByOwner(ctx context.Context, owner int64) (*entity.Wallet, error)
	// CreateIfAbsent inserts the wallet unless its owner already has one.
	CreateIfAbsent(ctx context.Context, wallet *entity.Wallet) (bool, error)
	// ApplyTransfer runs fn against the locked sender and receiver wallets and
	// commits the balances, the transfer record and the outbox event as one
	// unit. It returns entity.ErrTransferAlreadyApplied, without calling fn or
	// after discarding its result, when externalTxnID was already recorded.
	ApplyTransfer(ctx context.Context, externalTxnID string, sender, receiver int64, fn TransferFunc) (*entity.Transfer, error)
}
