package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind groups errors by how they surface to a caller.
type Kind int

const (
	KindInternal Kind = iota
	KindConfig
	KindValidation
	KindAuth
	KindNotFound
	KindRateLimited
	KindDelivery
)

// Error is a classified error. Reason is safe to show to clients; Err is
// the underlying cause and stays in logs.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind and reason, so package-level
// sentinels built with New work with errors.Is after wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Reason == e.Reason
}

func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

func Wrap(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

func Config(reason string) *Error {
	return New(KindConfig, reason)
}

func Validation(reason string) *Error {
	return New(KindValidation, reason)
}

// Unauthorized never carries detail about why authentication failed.
func Unauthorized() *Error {
	return New(KindAuth, "Unauthorized")
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the response status used by the handlers.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindDelivery:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicReason is the message written to the response body. Config and
// internal failures are reported generically.
func PublicReason(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Server error"
	}
	switch e.Kind {
	case KindConfig, KindInternal:
		return "Server error"
	case KindAuth:
		return "Unauthorized"
	default:
		return e.Reason
	}
}

// Respond writes the standard {"ok":false,"error":...} body and aborts the
// gin chain.
func Respond(c *gin.Context, err error) {
	c.AbortWithStatusJSON(HTTPStatus(err), gin.H{
		"ok":    false,
		"error": PublicReason(err),
	})
}
