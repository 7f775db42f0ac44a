package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

const SubjectWalletBalance = "wallet.balance"

type balanceRequest struct {
	UserID int64 `json:"userId"`
}

type balanceReply struct {
	UserID  int64  `json:"userId"`
	Balance int64  `json:"balance"`
	Error   string `json:"error,omitempty"`
}

// BalanceResponder answers balance requests from other services. All
// replicas join the same queue group so each request is answered once.
type BalanceResponder struct {
	conn   *nats.Conn
	reader ports.BalanceReader
	logger *slog.Logger
}

func NewBalanceResponder(conn *nats.Conn, reader ports.BalanceReader, logger *slog.Logger) *BalanceResponder {
	return &BalanceResponder{conn: conn, reader: reader, logger: logger}
}

// Run serves requests until ctx is done.
func (r *BalanceResponder) Run(ctx context.Context) error {
	sub, err := r.conn.QueueSubscribe(SubjectWalletBalance, entity.GroupWalletService, func(msg *nats.Msg) {
		if err := msg.Respond(r.Answer(ctx, msg.Data)); err != nil {
			r.logger.ErrorContext(ctx, "balance reply failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SubjectWalletBalance, err)
	}

	r.logger.InfoContext(ctx, "balance responder started", slog.String("subject", SubjectWalletBalance))
	<-ctx.Done()
	return sub.Drain()
}

// Answer builds the reply for one encoded request.
func (r *BalanceResponder) Answer(ctx context.Context, data []byte) []byte {
	var req balanceRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return encodeReply(balanceReply{Error: "malformed request"})
	}

	balance, err := r.reader.GetBalance(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, entity.ErrWalletNotFound) {
			r.logger.ErrorContext(ctx, "balance lookup failed",
				slog.Int64("user_id", req.UserID),
				slog.String("error", err.Error()),
			)
		}
		return encodeReply(balanceReply{UserID: req.UserID, Error: err.Error()})
	}
	return encodeReply(balanceReply{UserID: req.UserID, Balance: balance})
}

func encodeReply(reply balanceReply) []byte {
	b, _ := json.Marshal(reply)
	return b
}

// NatsBalanceReader asks the wallet service for a balance over NATS.
type NatsBalanceReader struct {
	conn    *nats.Conn
	timeout time.Duration
}

const defaultBalanceTimeout = 2 * time.Second

// NewNatsBalanceReader bounds every request by timeout so a silent responder
// cannot hold the caller.
func NewNatsBalanceReader(conn *nats.Conn, timeout time.Duration) *NatsBalanceReader {
	if timeout <= 0 {
		timeout = defaultBalanceTimeout
	}
	return &NatsBalanceReader{conn: conn, timeout: timeout}
}

func (c *NatsBalanceReader) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

func (c *NatsBalanceReader) GetBalance(ctx context.Context, owner int64) (int64, error) {
	data, err := json.Marshal(balanceRequest{UserID: owner})
	if err != nil {
		return 0, err
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	msg, err := c.conn.RequestWithContext(ctx, SubjectWalletBalance, data)
	if err != nil {
		return 0, fmt.Errorf("request %s: %w", SubjectWalletBalance, err)
	}

	return decodeReply(msg.Data)
}

func decodeReply(data []byte) (int64, error) {
	var reply balanceReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return 0, fmt.Errorf("decode balance reply: %w", err)
	}
	switch reply.Error {
	case "":
		return reply.Balance, nil
	case entity.ErrWalletNotFound.Error():
		return 0, entity.ErrWalletNotFound
	default:
		return 0, errors.New(reply.Error)
	}
}
