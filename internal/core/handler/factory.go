package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/usecase"
)

func NewTransactionHandlerFactory(f *usecase.TransactionFactory) *TransactionHandler {
	return NewTransactionHandler(f.Create, f.Status, f.Balance)
}

func NewWalletHandlerFactory(f *usecase.WalletFactory) *WalletHandler {
	return NewWalletHandler(f.Get)
}

type routes interface {
	RegisterRoutes(mux *http.ServeMux)
}

// NewRouter mounts the given handlers, the dead-letter listing and /metrics
// behind the metrics middleware.
func NewRouter(service string, deadLetters ports.DeadLetterStore, handlers ...routes) http.Handler {
	mux := http.NewServeMux()
	for _, h := range handlers {
		h.RegisterRoutes(mux)
	}
	NewDeadLetterHandler(deadLetters).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())
	return MetricsMiddleware(service, mux)
}
