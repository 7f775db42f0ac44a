package handler

import (
	"net/http"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/usecase"
)

type WalletHandler struct {
	getUC *usecase.GetWalletUseCase
	BaseHandler
}

func NewWalletHandler(getUC *usecase.GetWalletUseCase) *WalletHandler {
	return &WalletHandler{getUC: getUC}
}

func (h *WalletHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/wallets/{userId}", h.wrap(h.handleGet))
}

func (h *WalletHandler) handleGet(w http.ResponseWriter, r *http.Request) error {
	userID, err := parseUserID(r)
	if err != nil {
		return err
	}

	out, err := h.getUC.Execute(r.Context(), userID)
	if err != nil {
		return err
	}

	h.RespondWithSuccess(w, http.StatusOK, "ok", out)
	return nil
}
