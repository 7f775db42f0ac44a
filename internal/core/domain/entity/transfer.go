package entity

import (
	"time"
)

// Transfer is the wallet ledger's record of a processed transfer request.
// Its ExternalTxnID doubles as the idempotency key: a request whose id is
// already recorded is never applied again, whatever the first outcome was.
type Transfer struct {
	ExternalTxnID string
	Sender        int64
	Receiver      int64
	Amount        int64
	Status        SettlementStatus
	FailureReason string
	CreatedAt     time.Time
}

// Succeeded reports whether the balances were mutated for this transfer.
func (t *Transfer) Succeeded() bool {
	return t.Status == SettlementSuccess
}

// ApplyTransfer validates req against the two wallets and, when every check
// passes, debits sender and credits receiver in place. Either wallet may be nil
// when it does not exist. The wallets are only mutated on success.
//
// Callers must hold exclusive access to both wallets for the duration of the
// call and persist the result in the same atomic unit.
func ApplyTransfer(req TransferRequested, sender, receiver *Wallet) *Transfer {
	t := &Transfer{
		ExternalTxnID: req.ExternalTxnID,
		Sender:        req.Sender,
		Receiver:      req.Receiver,
		Amount:        req.Amount,
		Status:        SettlementFailed,
		CreatedAt:     time.Now().UTC(),
	}

	switch {
	case sender == nil || receiver == nil:
		t.FailureReason = ErrWalletNotFound.Error()
	case req.Sender == req.Receiver:
		t.FailureReason = ErrSameUser.Error()
	case sender.Status != WalletActive || receiver.Status != WalletActive:
		t.FailureReason = ErrWalletInactive.Error()
	case req.Amount <= 0:
		t.FailureReason = ErrAmountMustBePositive.Error()
	case sender.Balance < req.Amount:
		t.FailureReason = ErrInsufficientBalance.Error()
	case !receiver.CanCredit(req.Amount):
		t.FailureReason = ErrBalanceOverflow.Error()
	default:
		// Debit first so a failure leaves both wallets untouched.
		if err := sender.Debit(req.Amount); err != nil {
			t.FailureReason = err.Error()
			return t
		}
		if err := receiver.Credit(req.Amount); err != nil {
			sender.Balance += req.Amount
			t.FailureReason = err.Error()
			return t
		}
		t.Status = SettlementSuccess
	}

	return t
}

// Settlement builds the event announcing the outcome of t.
func (t *Transfer) Settlement() TransferSettled {
	return TransferSettled{
		ExternalTxnID: t.ExternalTxnID,
		Sender:        t.Sender,
		Receiver:      t.Receiver,
		Status:        t.Status,
	}
}
