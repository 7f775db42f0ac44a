package errors

import "net/http"

// Exception is the error shape returned by use cases invoked over HTTP.
type Exception struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     string `json:"error,omitempty"`
}

func (e *Exception) Error() string {
	return e.Message
}

type UserFriendlyExceptionOption func(*Exception)

func WithCode(code int) UserFriendlyExceptionOption {
	return func(h *Exception) {
		h.Code = code
	}
}

func WithMessage(message string) UserFriendlyExceptionOption {
	return func(h *Exception) {
		h.Message = message
	}
}

func WithError(err error) UserFriendlyExceptionOption {
	return func(h *Exception) {
		if err != nil {
			h.Err = err.Error()
		}
	}
}

func NotFound(opts ...UserFriendlyExceptionOption) *Exception {
	defaultOpts := []UserFriendlyExceptionOption{
		WithCode(http.StatusNotFound),
		WithMessage("no entities found with given parameters"),
	}
	return UserFriendlyException(append(defaultOpts, opts...)...)
}

func BadRequest(opts ...UserFriendlyExceptionOption) *Exception {
	defaultOpts := []UserFriendlyExceptionOption{
		WithCode(http.StatusBadRequest),
		WithMessage("bad request"),
	}
	return UserFriendlyException(append(defaultOpts, opts...)...)
}

func Conflict(opts ...UserFriendlyExceptionOption) *Exception {
	defaultOpts := []UserFriendlyExceptionOption{
		WithCode(http.StatusConflict),
		WithMessage("conflict"),
	}
	return UserFriendlyException(append(defaultOpts, opts...)...)
}

// BadGateway reports that a collaborating service did not answer.
func BadGateway(opts ...UserFriendlyExceptionOption) *Exception {
	defaultOpts := []UserFriendlyExceptionOption{
		WithCode(http.StatusBadGateway),
		WithMessage("upstream service unavailable"),
	}
	return UserFriendlyException(append(defaultOpts, opts...)...)
}

func Unexpected(opts ...UserFriendlyExceptionOption) *Exception {
	defaultOpts := []UserFriendlyExceptionOption{
		WithCode(http.StatusInternalServerError),
		WithMessage("internal server error"),
	}
	return UserFriendlyException(append(defaultOpts, opts...)...)
}

func UserFriendlyException(opts ...UserFriendlyExceptionOption) *Exception {
	h := &Exception{
		Code:    http.StatusInternalServerError,
		Message: "internal server error",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
