package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed generation so callers can react without
// string matching.
type ErrorKind string

const (
	KindConfiguration     ErrorKind = "configuration"
	KindTransport         ErrorKind = "transport"
	KindProvider          ErrorKind = "provider"
	KindEmptyResult       ErrorKind = "empty_result"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindValidation        ErrorKind = "validation"
)

var (
	ErrConfiguration     = &Error{Kind: KindConfiguration}
	ErrTransport         = &Error{Kind: KindTransport}
	ErrProvider          = &Error{Kind: KindProvider}
	ErrEmptyResult       = &Error{Kind: KindEmptyResult}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrValidation        = &Error{Kind: KindValidation}
)

// Error is the typed failure surfaced by the composer, validators and
// dispatchers. StatusCode is only set for KindProvider.
type Error struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	prefix := string(e.Kind)
	if e.Provider != "" {
		prefix = e.Provider + " " + prefix
	}
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("%s status %d", prefix, e.StatusCode)
	}
	if msg == "" {
		return prefix
	}
	return prefix + ": " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrEmptyResult)
// works regardless of provider or message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// RateLimited reports whether the provider rejected the call for quota or
// throughput reasons.
func (e *Error) RateLimited() bool {
	return e.Kind == KindProvider && e.StatusCode == http.StatusTooManyRequests
}

// Retryable reports whether re-invoking the same call may succeed without
// operator action. Nothing in this module retries on its own.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTransport:
		return true
	case KindProvider:
		return e.RateLimited() || e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

func NewConfigurationError(provider, message string) *Error {
	return &Error{Kind: KindConfiguration, Provider: provider, Message: message}
}

func NewTransportError(provider string, err error) *Error {
	return &Error{Kind: KindTransport, Provider: provider, Err: err}
}

// NewProviderError builds a KindProvider error from a non-success HTTP
// status and the provider supplied message, if any.
func NewProviderError(provider string, status int, message string, err error) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Kind: KindProvider, Provider: provider, StatusCode: status, Message: message, Err: err}
}

func NewEmptyResultError(provider, message string) *Error {
	return &Error{Kind: KindEmptyResult, Provider: provider, Message: message}
}

func NewMalformedResponseError(provider string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Provider: provider, Err: err}
}

func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// err is not a classified failure.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
