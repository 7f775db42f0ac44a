package handler

import (
	"net/http"
	"strconv"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
	apperrors "github.com/Rohitlovewanshi/Wallet-Management/internal/core/errors"
)

const defaultDeadLetterLimit = 100

// DeadLetterHandler exposes the dead-letter journal for reconciliation.
type DeadLetterHandler struct {
	store ports.DeadLetterStore
	BaseHandler
}

func NewDeadLetterHandler(store ports.DeadLetterStore) *DeadLetterHandler {
	return &DeadLetterHandler{store: store}
}

func (h *DeadLetterHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/dead-letters", h.wrap(h.handleList))
}

func (h *DeadLetterHandler) handleList(w http.ResponseWriter, r *http.Request) error {
	limit := defaultDeadLetterLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return apperrors.BadRequest(apperrors.WithMessage("limit must be a positive integer"))
		}
		limit = n
	}

	letters, err := h.store.List(r.Context(), r.URL.Query().Get("topic"), limit)
	if err != nil {
		return apperrors.Unexpected(apperrors.WithError(err))
	}
	if letters == nil {
		letters = []ports.DeadLetter{}
	}

	h.RespondWithSuccess(w, http.StatusOK, "ok", letters)
	return nil
}
