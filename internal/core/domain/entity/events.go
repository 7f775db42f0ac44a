package entity

import (
	"encoding/json"
	"fmt"
)

// Topics carried by the event bus.
const (
	TopicUserCreated       = "user-created"
	TopicTransferRequested = "transfer-requested"
	TopicTransferSettled   = "transfer-settled"
	TopicTransferCompleted = "transfer-completed"
)

// Consumer groups. Every replica of a service joins the same group.
const (
	GroupWalletService      = "wallet-service"
	GroupTransactionService = "transaction-service"
)

const (
	EventTransferRequested = "TransferRequested"
	EventTransferSettled   = "TransferSettled"
	EventTransferCompleted = "TransferCompleted"
)

// MaxExternalTxnIDLength bounds transaction ids on the wire and in both
// services' stores.
const MaxExternalTxnIDLength = 64

type SettlementStatus string

const (
	SettlementSuccess SettlementStatus = "SUCCESS"
	SettlementFailed  SettlementStatus = "FAILED"
)

type UserCreated struct {
	ID int64 `json:"id"`
}

type TransferRequested struct {
	ExternalTxnID string `json:"externalTxnId"`
	Sender        int64  `json:"sender"`
	Receiver      int64  `json:"receiver"`
	Amount        int64  `json:"amount"`
	Reason        string `json:"reason"`
}

type TransferSettled struct {
	ExternalTxnID string           `json:"externalTxnId"`
	Sender        int64            `json:"sender"`
	Receiver      int64            `json:"receiver"`
	Status        SettlementStatus `json:"status"`
}

// TransferCompleted is emitted once a transaction reaches its terminal state,
// for downstream consumers such as notifications.
type TransferCompleted struct {
	ExternalTxnID string            `json:"externalTxnId"`
	Sender        int64             `json:"sender"`
	Receiver      int64             `json:"receiver"`
	Amount        int64             `json:"amount"`
	Status        TransactionStatus `json:"status"`
}

// Validate rejects payloads that cannot belong to any transfer. Business rule
// failures (missing wallet, low balance) are not checked here.
func (e TransferRequested) Validate() error {
	if e.ExternalTxnID == "" {
		return fmt.Errorf("transfer requested: missing externalTxnId")
	}
	if len(e.ExternalTxnID) > MaxExternalTxnIDLength {
		return fmt.Errorf("transfer requested: externalTxnId longer than %d bytes", MaxExternalTxnIDLength)
	}
	return nil
}

func (e TransferSettled) Validate() error {
	if e.ExternalTxnID == "" {
		return fmt.Errorf("transfer settled: missing externalTxnId")
	}
	if len(e.ExternalTxnID) > MaxExternalTxnIDLength {
		return fmt.Errorf("transfer settled: externalTxnId longer than %d bytes", MaxExternalTxnIDLength)
	}
	return nil
}

func (e UserCreated) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("user created: invalid id %d", e.ID)
	}
	return nil
}

func NewTransferRequestedOutbox(tx *Transaction) (*Outbox, error) {
	return newOutbox(EventTransferRequested, TopicTransferRequested, tx.ID, TransferRequested{
		ExternalTxnID: tx.ID,
		Sender:        tx.Sender,
		Receiver:      tx.Receiver,
		Amount:        tx.Amount,
		Reason:        tx.Reason,
	})
}

func NewTransferSettledOutbox(t *Transfer) (*Outbox, error) {
	return newOutbox(EventTransferSettled, TopicTransferSettled, t.ExternalTxnID, t.Settlement())
}

func NewTransferCompletedOutbox(tx *Transaction) (*Outbox, error) {
	return newOutbox(EventTransferCompleted, TopicTransferCompleted, tx.ID, TransferCompleted{
		ExternalTxnID: tx.ID,
		Sender:        tx.Sender,
		Receiver:      tx.Receiver,
		Amount:        tx.Amount,
		Status:        tx.Status,
	})
}

func newOutbox(eventType, topic, key string, event any) (*Outbox, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	return NewOutbox(eventType, topic, key, string(payload)), nil
}
