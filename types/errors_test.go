package types

import (
	"errors"
	"fmt"
	"math/big"
	"testing"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&InvalidHeaderError{Header: "X-Payment", Reason: "bad"}, ErrCodeInvalidHeader},
		{&PaymentExpiredError{ExpiresAt: 1, Now: 2}, ErrCodePaymentExpired},
		{&InsufficientAmountError{Required: big.NewInt(2), Provided: big.NewInt(1)}, ErrCodeInsufficientAmount},
		{&InvalidSignatureError{Reason: "payer mismatch"}, ErrCodeInvalidSignature},
		{&TransportError{Op: "request", Err: errors.New("timeout")}, ErrCodeTransport},
		{errors.New("other"), "unknown"},
	}

	for _, tc := range cases {
		if got := ErrorCode(tc.err); got != tc.want {
			t.Errorf("ErrorCode(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestErrorCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("verify: %w", &PaymentExpiredError{ExpiresAt: 1, Now: 2})
	if got := ErrorCode(err); got != ErrCodePaymentExpired {
		t.Errorf("wrapped ErrorCode = %q, want %q", got, ErrCodePaymentExpired)
	}
}

func TestInsufficientAmountError_Message(t *testing.T) {
	err := &InsufficientAmountError{Required: big.NewInt(1000000), Provided: big.NewInt(100)}
	want := "insufficient amount: required 1000000, got 100"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
