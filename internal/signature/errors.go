package signature

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by VerificationError. Test with errors.Is.
var (
	ErrMissingSignature   = errors.New("missing signature")
	ErrMissingTimestamp   = errors.New("missing timestamp")
	ErrMalformedSignature = errors.New("malformed signature")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrTimestampExpired   = errors.New("timestamp outside replay window")
	ErrTimestampInFuture  = errors.New("timestamp too far in the future")
	ErrInvalidSignature   = errors.New("signature does not match")
	ErrInvalidPublicKey   = errors.New("invalid public key")
)

// VerificationError represents a signature verification failure
type VerificationError struct {
	Header string
	Cause  error
	Detail string
}

func (e *VerificationError) Error() string {
	msg := e.Cause.Error()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Header != "" {
		return fmt.Sprintf("signature verification failed for header %s: %s", e.Header, msg)
	}
	return fmt.Sprintf("signature verification failed: %s", msg)
}

func (e *VerificationError) Unwrap() error {
	return e.Cause
}

// NewVerificationError creates a new verification error
func NewVerificationError(header string, cause error, format string, args ...interface{}) *VerificationError {
	return &VerificationError{
		Header: header,
		Cause:  cause,
		Detail: fmt.Sprintf(format, args...),
	}
}
