package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rohitlovewanshi/Wallet-Management/infra/repository/memory"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/entity"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/handler"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubBalanceReader struct {
	balance int64
	err     error
}

func (s *stubBalanceReader) GetBalance(_ context.Context, _ int64) (int64, error) {
	return s.balance, s.err
}

type stubDeadLetters struct {
	letters []ports.DeadLetter
	topic   string
	limit   int
}

func (s *stubDeadLetters) Record(_ context.Context, letter ports.DeadLetter) error {
	s.letters = append(s.letters, letter)
	return nil
}

func (s *stubDeadLetters) List(_ context.Context, topic string, limit int) ([]ports.DeadLetter, error) {
	s.topic, s.limit = topic, limit
	return s.letters, nil
}

type testServer struct {
	mux     http.Handler
	wallets *memory.WalletRepository
	dead    *stubDeadLetters
}

func newTestServer(balances ports.BalanceReader) *testServer {
	outbox := memory.NewOutboxRepository()
	txRepo := memory.NewTransactionRepository(outbox)
	wallets := memory.NewWalletRepository(memory.NewOutboxRepository())
	dead := &stubDeadLetters{}

	txFactory := usecase.NewTransactionFactory(txRepo, balances, testLogger())
	walletFactory := usecase.NewWalletFactory(wallets, 0, testLogger())

	return &testServer{
		mux: handler.NewRouter("test", dead,
			handler.NewTransactionHandlerFactory(txFactory),
			handler.NewWalletHandlerFactory(walletFactory),
		),
		wallets: wallets,
		dead:    dead,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func createRequest(t *testing.T, body map[string]any, key string) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(raw))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	return req
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestHandleCreate_Returns201(t *testing.T) {
	srv := newTestServer(&stubBalanceReader{})

	rec := srv.do(createRequest(t, map[string]any{"sender": 1, "receiver": 2, "amount": 50}, ""))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var data map[string]string
	decodeData(t, rec, &data)
	if data["id"] == "" || data["status"] != string(entity.StatusPending) {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestHandleCreate_IdempotentReturns200(t *testing.T) {
	srv := newTestServer(&stubBalanceReader{})
	body := map[string]any{"sender": 1, "receiver": 2, "amount": 50}

	first := srv.do(createRequest(t, body, "key-abc"))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first request, got %d", first.Code)
	}
	var created map[string]string
	decodeData(t, first, &created)

	second := srv.do(createRequest(t, body, "key-abc"))
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 for idempotent request, got %d", second.Code)
	}
	var replayed map[string]string
	decodeData(t, second, &replayed)
	if replayed["id"] != created["id"] {
		t.Fatalf("expected same id %s, got %s", created["id"], replayed["id"])
	}
}

func TestHandleCreate_IdempotencyKeyConflictReturns409(t *testing.T) {
	srv := newTestServer(&stubBalanceReader{})

	first := srv.do(createRequest(t, map[string]any{"sender": 1, "receiver": 2, "amount": 50}, "key-abc"))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first request, got %d", first.Code)
	}

	second := srv.do(createRequest(t, map[string]any{"sender": 1, "receiver": 2, "amount": 75}, "key-abc"))
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a reused key, got %d", second.Code)
	}
}

func TestHandleCreate_InvalidBody_Returns400(t *testing.T) {
	srv := newTestServer(&stubBalanceReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader([]byte("not-json")))
	rec := srv.do(req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCreate_ValidationErrors_Return400(t *testing.T) {
	cases := map[string]map[string]any{
		"missing sender": {"receiver": 2, "amount": 50},
		"same user":      {"sender": 2, "receiver": 2, "amount": 50},
		"zero amount":    {"sender": 1, "receiver": 2, "amount": 0},
		"negative":       {"sender": 1, "receiver": 2, "amount": -5},
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newTestServer(&stubBalanceReader{})

			rec := srv.do(createRequest(t, body, ""))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleGetStatus(t *testing.T) {
	srv := newTestServer(&stubBalanceReader{})

	created := srv.do(createRequest(t, map[string]any{"sender": 1, "receiver": 2, "amount": 50, "reason": "rent"}, ""))
	var ids map[string]string
	decodeData(t, created, &ids)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+ids["id"], nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var out usecase.GetTransactionStatusOutput
	decodeData(t, rec, &out)
	if out.Status != string(entity.StatusPending) || out.Reason != "rent" || out.Amount != 50 {
		t.Fatalf("unexpected status output: %+v", out)
	}
}

func TestHandleGetStatus_NotFound(t *testing.T) {
	srv := newTestServer(&stubBalanceReader{})

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/transactions/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var problem handler.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&problem); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if problem.Instance != "/api/v1/transactions/missing" {
		t.Fatalf("unexpected instance %q", problem.Instance)
	}
}

func TestHandleGetBalance(t *testing.T) {
	srv := newTestServer(&stubBalanceReader{balance: 1200})

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/balance/7", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var out usecase.BalanceOutput
	decodeData(t, rec, &out)
	if out.UserID != 7 || out.Balance != 1200 {
		t.Fatalf("unexpected balance output: %+v", out)
	}
}

func TestHandleGetBalance_Errors(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		reader *stubBalanceReader
		want   int
	}{
		{"invalid id", "/api/v1/balance/abc", &stubBalanceReader{}, http.StatusBadRequest},
		{"zero id", "/api/v1/balance/0", &stubBalanceReader{}, http.StatusBadRequest},
		{"unknown wallet", "/api/v1/balance/9", &stubBalanceReader{err: entity.ErrWalletNotFound}, http.StatusNotFound},
		{"ledger down", "/api/v1/balance/9", &stubBalanceReader{err: errors.New("timeout")}, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(tc.reader)

			rec := srv.do(httptest.NewRequest(http.MethodGet, tc.path, nil))

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestHandleGetWallet(t *testing.T) {
	srv := newTestServer(&stubBalanceReader{})
	wallet, err := entity.NewWallet(3, 250)
	if err != nil {
		t.Fatalf("new wallet: %v", err)
	}
	if _, err := srv.wallets.CreateIfAbsent(context.Background(), wallet); err != nil {
		t.Fatalf("seed wallet: %v", err)
	}

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/wallets/3", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var out usecase.GetWalletOutput
	decodeData(t, rec, &out)
	if out.UserID != 3 || out.Balance != 250 {
		t.Fatalf("unexpected wallet output: %+v", out)
	}

	missing := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/wallets/4", nil))
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing wallet, got %d", missing.Code)
	}
}

func TestHandleListDeadLetters(t *testing.T) {
	srv := newTestServer(&stubBalanceReader{})
	srv.dead.letters = []ports.DeadLetter{{ID: "m-1", Topic: entity.TopicTransferRequested, FailedAt: time.Now()}}

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/dead-letters?topic="+entity.TopicTransferRequested+"&limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if srv.dead.topic != entity.TopicTransferRequested || srv.dead.limit != 5 {
		t.Fatalf("unexpected list args topic=%q limit=%d", srv.dead.topic, srv.dead.limit)
	}

	var out []ports.DeadLetter
	decodeData(t, rec, &out)
	if len(out) != 1 || out[0].ID != "m-1" {
		t.Fatalf("unexpected dead letters: %+v", out)
	}

	bad := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/dead-letters?limit=x", nil))
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", bad.Code)
	}
}

func TestRespondWithException_PlainErrorIs500(t *testing.T) {
	var b handler.BaseHandler
	rec := httptest.NewRecorder()

	b.RespondWithException(rec, httptest.NewRequest(http.MethodGet, "/x", nil), errors.New("boom"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
