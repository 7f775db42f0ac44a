package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

// WalletRepository keeps wallets in memory. Transfers lock the wallets they
// touch, always in ascending owner order, so transfers on disjoint wallets run
// in parallel and crossing transfers cannot deadlock.
type WalletRepository struct {
	mu        sync.Mutex
	wallets   map[int64]*entity.Wallet
	transfers map[string]*entity.Transfer
	locks     map[int64]*sync.Mutex
	outbox    *OutboxRepository
}

func NewWalletRepository(outbox *OutboxRepository) *WalletRepository {
	return &WalletRepository{
		wallets:   make(map[int64]*entity.Wallet),
		transfers: make(map[string]*entity.Transfer),
		locks:     make(map[int64]*sync.Mutex),
		outbox:    outbox,
	}
}

func (r *WalletRepository) FindByOwner(_ context.Context, owner int64) (*entity.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wallets[owner]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *WalletRepository) CreateIfAbsent(_ context.Context, wallet *entity.Wallet) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.wallets[wallet.Owner]; ok {
		return false, nil
	}
	cp := *wallet
	r.wallets[wallet.Owner] = &cp
	return true, nil
}

// GetBalance implements ports.BalanceReader for in-process wiring.
func (r *WalletRepository) GetBalance(ctx context.Context, owner int64) (int64, error) {
	w, err := r.FindByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}
	if w == nil {
		return 0, entity.ErrWalletNotFound
	}
	return w.Balance, nil
}

func (r *WalletRepository) ApplyTransfer(_ context.Context, externalTxnID string, sender, receiver int64, fn ports.TransferFunc) (*entity.Transfer, error) {
	if r.applied(externalTxnID) {
		return nil, entity.ErrTransferAlreadyApplied
	}

	unlock := r.lockWallets(sender, receiver)
	defer unlock()

	senderWallet, _ := r.FindByOwner(context.Background(), sender)
	receiverWallet, _ := r.FindByOwner(context.Background(), receiver)

	transfer, outbox, err := fn(senderWallet, receiverWallet)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transfers[externalTxnID]; ok {
		return nil, entity.ErrTransferAlreadyApplied
	}

	if transfer.Succeeded() {
		r.wallets[sender] = senderWallet
		r.wallets[receiver] = receiverWallet
	}
	cp := *transfer
	r.transfers[externalTxnID] = &cp
	r.outbox.add(outbox)
	return transfer, nil
}

// Transfer returns the recorded outcome for externalTxnID, if any.
func (r *WalletRepository) Transfer(externalTxnID string) (*entity.Transfer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.transfers[externalTxnID]
	if !ok {
		return nil, false
	}
	cp := *t
	return &cp, true
}

func (r *WalletRepository) applied(externalTxnID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.transfers[externalTxnID]
	return ok
}

func (r *WalletRepository) lockWallets(owners ...int64) func() {
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })

	r.mu.Lock()
	var held []*sync.Mutex
	for i, owner := range owners {
		if i > 0 && owner == owners[i-1] {
			continue
		}
		l, ok := r.locks[owner]
		if !ok {
			l = &sync.Mutex{}
			r.locks[owner] = l
		}
		held = append(held, l)
	}
	r.mu.Unlock()

	for _, l := range held {
		l.Lock()
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
