package usecase

import (
	"log/slog"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

type TransactionFactory struct {
	Create  *CreateTransactionUseCase
	Settle  *SettleTransactionUseCase
	Status  *GetTransactionStatusUseCase
	Balance *GetBalanceUseCase
}

func NewTransactionFactory(repo ports.TransactionRepository, balances ports.BalanceReader, logger *slog.Logger) *TransactionFactory {
	return &TransactionFactory{
		Create:  NewCreateTransactionUseCase(repo, logger),
		Settle:  NewSettleTransactionUseCase(repo, logger),
		Status:  NewGetTransactionStatusUseCase(repo, logger),
		Balance: NewGetBalanceUseCase(balances, logger),
	}
}

type WalletFactory struct {
	Provision *ProvisionWalletUseCase
	Transfer  *ApplyTransferUseCase
	Get       *GetWalletUseCase
}

func NewWalletFactory(repo ports.WalletRepository, promotionalBalance int64, logger *slog.Logger) *WalletFactory {
	return &WalletFactory{
		Provision: NewProvisionWalletUseCase(repo, promotionalBalance, logger),
		Transfer:  NewApplyTransferUseCase(repo, logger),
		Get:       NewGetWalletUseCase(repo, logger),
	}
}
