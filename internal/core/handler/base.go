package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/Rohitlovewanshi/Wallet-Management/internal/core/errors"
)

type HttpResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

type BaseHandler struct{}

func (b *BaseHandler) RespondWithError(w http.ResponseWriter, r *http.Request, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.String(),
	})
}

// RespondWithException renders a use case error. Anything that is not an
// *apperrors.Exception is reported as a 500.
func (b *BaseHandler) RespondWithException(w http.ResponseWriter, r *http.Request, err error) {
	var exc *apperrors.Exception
	if !errors.As(err, &exc) {
		exc = apperrors.Unexpected(apperrors.WithError(err))
	}
	b.RespondWithError(w, r, exc.Code, http.StatusText(exc.Code), exc.Message)
}

func (b *BaseHandler) RespondWithSuccess(w http.ResponseWriter, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(HttpResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func (b *BaseHandler) wrap(fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			b.RespondWithException(w, r, err)
		}
	}
}
