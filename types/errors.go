package types

import (
	"errors"
	"fmt"
	"math/big"
)

// Error codes used as logging and metrics labels.
const (
	ErrCodeInvalidHeader      = "invalid_header"
	ErrCodePaymentExpired     = "payment_expired"
	ErrCodeInsufficientAmount = "insufficient_amount"
	ErrCodeInvalidSignature   = "invalid_signature"
	ErrCodeTransport          = "transport_error"
)

// InvalidHeaderError reports unparseable wire data in a payment or
// requirements header. The endpoint is non-compliant; not retried.
type InvalidHeaderError struct {
	Header string
	Reason string
	Err    error
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("invalid %s header: %s", e.Header, e.Reason)
}

func (e *InvalidHeaderError) Unwrap() error {
	return e.Err
}

// PaymentExpiredError reports a stale payload. The caller should re-fetch
// requirements before retrying.
type PaymentExpiredError struct {
	ExpiresAt uint64
	Now       uint64
}

func (e *PaymentExpiredError) Error() string {
	return fmt.Sprintf("payment expired at %d (now %d)", e.ExpiresAt, e.Now)
}

// InsufficientAmountError reports an underpayment with both sides of the
// comparison so the caller can retry with a larger amount.
type InsufficientAmountError struct {
	Required *big.Int
	Provided *big.Int
}

func (e *InsufficientAmountError) Error() string {
	return fmt.Sprintf("insufficient amount: required %s, got %s", e.Required, e.Provided)
}

// InvalidSignatureError reports a recipient, chain or payer mismatch, or a
// signature that could not be recovered. Always security-relevant and
// never auto-retried.
type InvalidSignatureError struct {
	Reason string
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid signature: %s", e.Reason)
}

// TransportError wraps network and timeout failures. Orthogonal to the
// protocol errors above; retry policy belongs to a higher layer.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrorCode maps an error to its taxonomy code, for logs and metrics.
func ErrorCode(err error) string {
	var (
		invalidHeader *InvalidHeaderError
		expired       *PaymentExpiredError
		insufficient  *InsufficientAmountError
		invalidSig    *InvalidSignatureError
		transport     *TransportError
	)
	switch {
	case errors.As(err, &invalidHeader):
		return ErrCodeInvalidHeader
	case errors.As(err, &expired):
		return ErrCodePaymentExpired
	case errors.As(err, &insufficient):
		return ErrCodeInsufficientAmount
	case errors.As(err, &invalidSig):
		return ErrCodeInvalidSignature
	case errors.As(err, &transport):
		return ErrCodeTransport
	default:
		return "unknown"
	}
}
