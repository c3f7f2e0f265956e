package services

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorAuthFailed       ErrorCode = "AUTH_FAILED"
	ErrorMalformedPayload ErrorCode = "MALFORMED_PAYLOAD"
	ErrorPersistence      ErrorCode = "PERSISTENCE_ERROR"
	ErrorDelivery         ErrorCode = "DELIVERY_ERROR"
	ErrorConfig           ErrorCode = "CONFIG_ERROR"
)

// ErrMissingCredentials is raised before any outbound request when the
// ChannelTalk access key or secret is absent.
var ErrMissingCredentials = errors.New("channeltalk access key and secret must be set")

type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("services: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("services: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
