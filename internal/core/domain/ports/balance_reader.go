package ports

import "context"

// BalanceReader looks up a user's wallet balance owned by another service.
type BalanceReader interface {
	GetBalance(ctx context.Context, owner int64) (int64, error)
}
