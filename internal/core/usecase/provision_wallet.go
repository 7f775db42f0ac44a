package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

type ProvisionWalletUseCase struct {
	repo               ports.WalletRepository
	promotionalBalance int64
	logger             *slog.Logger
}

func NewProvisionWalletUseCase(repo ports.WalletRepository, promotionalBalance int64, logger *slog.Logger) *ProvisionWalletUseCase {
	return &ProvisionWalletUseCase{repo: repo, promotionalBalance: promotionalBalance, logger: logger}
}

// Execute opens a wallet for a newly registered user. Redelivered
// registrations leave the existing wallet and its balance untouched.
func (uc *ProvisionWalletUseCase) Execute(ctx context.Context, event entity.UserCreated) (*entity.Wallet, error) {
	existing, err := uc.repo.FindByOwner(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("find wallet for user %d: %w", event.ID, err)
	}
	if existing != nil {
		uc.logger.InfoContext(ctx, "wallet already exists", slog.Int64("user_id", event.ID))
		return existing, nil
	}

	wallet, err := entity.NewWallet(event.ID, uc.promotionalBalance)
	if err != nil {
		return nil, err
	}

	created, err := uc.repo.CreateIfAbsent(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("create wallet for user %d: %w", event.ID, err)
	}
	if !created {
		uc.logger.InfoContext(ctx, "wallet created by a concurrent delivery", slog.Int64("user_id", event.ID))
		return uc.repo.FindByOwner(ctx, event.ID)
	}

	uc.logger.InfoContext(ctx, "wallet created",
		slog.Int64("user_id", wallet.Owner),
		slog.String("wallet_id", wallet.ID),
		slog.Int64("balance", wallet.Balance),
	)
	return wallet, nil
}
