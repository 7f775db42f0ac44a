package messaging

import (
	"context"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/usecase"
)

// RegisterTransactionRoutes declares what the transaction service consumes.
func RegisterTransactionRoutes(r *Router, f *usecase.TransactionFactory) {
	r.Handle(entity.TopicTransferSettled, entity.GroupTransactionService, func(ctx context.Context, msg ports.Message) error {
		event, err := Decode[entity.TransferSettled](msg)
		if err != nil {
			return err
		}
		_, err = f.Settle.Execute(ctx, event)
		return err
	})
}

// RegisterWalletRoutes declares what the wallet service consumes.
func RegisterWalletRoutes(r *Router, f *usecase.WalletFactory) {
	r.Handle(entity.TopicUserCreated, entity.GroupWalletService, func(ctx context.Context, msg ports.Message) error {
		event, err := Decode[entity.UserCreated](msg)
		if err != nil {
			return err
		}
		_, err = f.Provision.Execute(ctx, event)
		return err
	})

	r.Handle(entity.TopicTransferRequested, entity.GroupWalletService, func(ctx context.Context, msg ports.Message) error {
		event, err := Decode[entity.TransferRequested](msg)
		if err != nil {
			return err
		}
		_, err = f.Transfer.Execute(ctx, event)
		return err
	})
}
