package entity_test

import (
	"math"
	"testing"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
)

func wallet(owner, balance int64) *entity.Wallet {
	w, _ := entity.NewWallet(owner, balance)
	return w
}

func request(sender, receiver, amount int64) entity.TransferRequested {
	return entity.TransferRequested{ExternalTxnID: "tx-1", Sender: sender, Receiver: receiver, Amount: amount}
}

func TestNewWallet_Defaults(t *testing.T) {
	w, err := entity.NewWallet(10, 1000)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if w.ID == "" || w.Owner != 10 || w.Balance != 1000 {
		t.Fatalf("unexpected wallet: %+v", w)
	}
	if w.Status != entity.WalletActive {
		t.Fatalf("expected ACTIVE, got %s", w.Status)
	}
}

func TestNewWallet_Invalid(t *testing.T) {
	if _, err := entity.NewWallet(0, 10); err != entity.ErrOwnerRequired {
		t.Fatalf("expected ErrOwnerRequired, got: %v", err)
	}
	if _, err := entity.NewWallet(1, -1); err != entity.ErrNegativeBalance {
		t.Fatalf("expected ErrNegativeBalance, got: %v", err)
	}
}

func TestWallet_DebitNeverGoesNegative(t *testing.T) {
	w := wallet(1, 100)

	if err := w.Debit(101); err != entity.ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got: %v", err)
	}
	if w.Balance != 100 {
		t.Fatalf("balance must be unchanged, got %d", w.Balance)
	}
	if err := w.Debit(100); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if w.Balance != 0 {
		t.Fatalf("expected balance 0, got %d", w.Balance)
	}
}

func TestApplyTransfer_Success(t *testing.T) {
	sender, receiver := wallet(1, 1000), wallet(2, 500)

	transfer := entity.ApplyTransfer(request(1, 2, 300), sender, receiver)

	if !transfer.Succeeded() {
		t.Fatalf("expected success, got %s (%s)", transfer.Status, transfer.FailureReason)
	}
	if sender.Balance != 700 || receiver.Balance != 800 {
		t.Fatalf("expected 700/800, got %d/%d", sender.Balance, receiver.Balance)
	}
}

func TestApplyTransfer_Failures(t *testing.T) {
	inactive := wallet(2, 0)
	inactive.Status = entity.WalletInactive

	cases := []struct {
		name     string
		req      entity.TransferRequested
		sender   *entity.Wallet
		receiver *entity.Wallet
		reason   error
	}{
		{"insufficient balance", request(1, 2, 300), wallet(1, 100), wallet(2, 0), entity.ErrInsufficientBalance},
		{"unknown sender", request(1, 2, 300), nil, wallet(2, 0), entity.ErrWalletNotFound},
		{"unknown receiver", request(1, 2, 300), wallet(1, 1000), nil, entity.ErrWalletNotFound},
		{"zero amount", request(1, 2, 0), wallet(1, 1000), wallet(2, 0), entity.ErrAmountMustBePositive},
		{"negative amount", request(1, 2, -5), wallet(1, 1000), wallet(2, 0), entity.ErrAmountMustBePositive},
		{"same wallet", request(1, 1, 10), wallet(1, 1000), wallet(1, 1000), entity.ErrSameUser},
		{"inactive wallet", request(1, 2, 10), wallet(1, 1000), inactive, entity.ErrWalletInactive},
		{"receiver balance overflow", request(1, 2, 5), wallet(1, 10), wallet(2, math.MaxInt64), entity.ErrBalanceOverflow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var before [2]int64
			if tc.sender != nil {
				before[0] = tc.sender.Balance
			}
			if tc.receiver != nil {
				before[1] = tc.receiver.Balance
			}

			transfer := entity.ApplyTransfer(tc.req, tc.sender, tc.receiver)

			if transfer.Succeeded() {
				t.Fatal("expected failure")
			}
			if transfer.FailureReason != tc.reason.Error() {
				t.Fatalf("expected reason %q, got %q", tc.reason.Error(), transfer.FailureReason)
			}
			if tc.sender != nil && tc.sender.Balance != before[0] {
				t.Fatalf("sender balance changed to %d", tc.sender.Balance)
			}
			if tc.receiver != nil && tc.receiver.Balance != before[1] {
				t.Fatalf("receiver balance changed to %d", tc.receiver.Balance)
			}
		})
	}
}

func TestWallet_CreditRejectsOverflow(t *testing.T) {
	w := wallet(1, math.MaxInt64-4)

	if err := w.Credit(5); err != entity.ErrBalanceOverflow {
		t.Fatalf("expected ErrBalanceOverflow, got: %v", err)
	}
	if w.Balance != math.MaxInt64-4 {
		t.Fatalf("balance must be unchanged, got %d", w.Balance)
	}
	if err := w.Credit(4); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if w.Balance != math.MaxInt64 {
		t.Fatalf("expected max balance, got %d", w.Balance)
	}
}
