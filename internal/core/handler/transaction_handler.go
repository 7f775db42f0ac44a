package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "github.com/Rohitlovewanshi/Wallet-Management/internal/core/errors"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/usecase"
)

const idempotencyHeader = "Idempotency-Key"

type TransactionHandler struct {
	createUC  *usecase.CreateTransactionUseCase
	statusUC  *usecase.GetTransactionStatusUseCase
	balanceUC *usecase.GetBalanceUseCase
	BaseHandler
}

type createTransactionRequest struct {
	Sender   int64  `json:"sender"`
	Receiver int64  `json:"receiver"`
	Amount   int64  `json:"amount"`
	Reason   string `json:"reason"`
}

func NewTransactionHandler(
	createUC *usecase.CreateTransactionUseCase,
	statusUC *usecase.GetTransactionStatusUseCase,
	balanceUC *usecase.GetBalanceUseCase,
) *TransactionHandler {
	return &TransactionHandler{
		createUC:  createUC,
		statusUC:  statusUC,
		balanceUC: balanceUC,
	}
}

func (h *TransactionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/transactions", h.wrap(h.handleCreate))
	mux.HandleFunc("GET /api/v1/transactions/{id}", h.wrap(h.handleGetStatus))
	mux.HandleFunc("GET /api/v1/balance/{userId}", h.wrap(h.handleGetBalance))
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request) error {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return nil
	}

	out, err := h.createUC.Execute(r.Context(), usecase.CreateInput{
		Sender:         req.Sender,
		Receiver:       req.Receiver,
		Amount:         req.Amount,
		Reason:         req.Reason,
		IdempotencyKey: r.Header.Get(idempotencyHeader),
	})
	if err != nil {
		return err
	}

	code, message := http.StatusCreated, "transaction created"
	if out.Idempotent {
		code, message = http.StatusOK, "transaction already exists"
	}

	h.RespondWithSuccess(w, code, message, map[string]string{
		"id":     out.ID,
		"status": out.Status,
	})
	return nil
}

func (h *TransactionHandler) handleGetStatus(w http.ResponseWriter, r *http.Request) error {
	out, err := h.statusUC.Execute(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}

	h.RespondWithSuccess(w, http.StatusOK, "ok", out)
	return nil
}

func (h *TransactionHandler) handleGetBalance(w http.ResponseWriter, r *http.Request) error {
	userID, err := parseUserID(r)
	if err != nil {
		return err
	}

	out, err := h.balanceUC.Execute(r.Context(), usecase.BalanceInput{UserID: userID})
	if err != nil {
		return err
	}

	h.RespondWithSuccess(w, http.StatusOK, "ok", out)
	return nil
}

func parseUserID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequest(apperrors.WithMessage("user id must be a positive integer"))
	}
	return id, nil
}
