// Package verification validates decoded signed payments against a
// server's payment requirements, culminating in ECDSA address recovery.
package verification

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/girderdev/x402-sdk/logger"
	"github.com/girderdev/x402-sdk/metrics"
	"github.com/girderdev/x402-sdk/protocol"
	"github.com/girderdev/x402-sdk/types"
)

// Verifier checks signed payments. The zero-cost structural checks run
// before the expensive signature recovery, so most invalid traffic is
// rejected cheaply.
type Verifier struct {
	log logger.Logger
	rec metrics.Recorder
	now func() time.Time
}

type Option func(*Verifier)

func WithLogger(l logger.Logger) Option {
	return func(v *Verifier) {
		v.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(v *Verifier) {
		v.rec = r
	}
}

// WithClock overrides the time source. Useful for tests.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

// NewVerifier creates a verifier with the given options.
func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{
		log: logger.NoopLogger{},
		rec: metrics.NoopRecorder{},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks the X-Payment header value against the requirements and
// returns the recovered payer address. The recovered address is
// authoritative; the payload's declared payer field is advisory only.
func (v *Verifier) Verify(paymentHeader string, req *types.PaymentRequirements) (common.Address, error) {
	return v.VerifyAt(paymentHeader, req, uint64(v.now().Unix()))
}

// VerifyAt is Verify with an explicit current time.
func (v *Verifier) VerifyAt(paymentHeader string, req *types.PaymentRequirements, now uint64) (common.Address, error) {
	start := time.Now()
	addr, err := verifyAt(paymentHeader, req, now)
	v.rec.ObserveLatency("verify", time.Since(start), map[string]string{
		"network": req.Network.String(),
	})

	if err != nil {
		v.log.Warn("payment verification failed", map[string]any{
			"network": req.Network.String(),
			"code":    types.ErrorCode(err),
			"error":   err.Error(),
		})
		v.rec.IncCounter(metrics.EventVerifyFailed, map[string]string{
			"network": req.Network.String(),
			"code":    types.ErrorCode(err),
		})
		return common.Address{}, err
	}

	v.log.Debug("payment verified", map[string]any{
		"network": req.Network.String(),
		"payer":   addr.Hex(),
	})
	v.rec.IncCounter(metrics.EventVerifyOK, map[string]string{
		"network": req.Network.String(),
	})
	return addr, nil
}

func verifyAt(paymentHeader string, req *types.PaymentRequirements, now uint64) (common.Address, error) {
	signed, err := protocol.DecodePayment(paymentHeader)
	if err != nil {
		return common.Address{}, err
	}
	payment := &signed.Payment

	if payment.ExpiresAt < now {
		return common.Address{}, &types.PaymentExpiredError{
			ExpiresAt: payment.ExpiresAt,
			Now:       now,
		}
	}

	if payment.Amount.Cmp(req.Amount) < 0 {
		return common.Address{}, &types.InsufficientAmountError{
			Required: req.Amount,
			Provided: payment.Amount,
		}
	}

	// Addresses are canonical 20-byte values, so equality here covers the
	// case-insensitive comparison of their textual forms.
	if payment.Recipient != req.Recipient {
		return common.Address{}, &types.InvalidSignatureError{
			Reason: fmt.Sprintf("recipient mismatch: expected %s, got %s",
				req.Recipient.Hex(), payment.Recipient.Hex()),
		}
	}

	chainID, ok := req.Network.ChainID()
	if !ok || payment.ChainID != chainID {
		return common.Address{}, &types.InvalidSignatureError{
			Reason: fmt.Sprintf("chain mismatch: expected %d, got %d", chainID, payment.ChainID),
		}
	}

	recovered, err := RecoverSigner(signed)
	if err != nil {
		return common.Address{}, &types.InvalidSignatureError{
			Reason: fmt.Sprintf("recovery failed: %v", err),
		}
	}

	if recovered != payment.Payer {
		return common.Address{}, &types.InvalidSignatureError{
			Reason: fmt.Sprintf("payer mismatch: recovered %s, declared %s",
				recovered.Hex(), payment.Payer.Hex()),
		}
	}

	return recovered, nil
}

// RecoverSigner recovers the address that signed the payment.
// The recovery id accepts both the {27,28} wire convention and raw {0,1}.
func RecoverSigner(signed *types.SignedPayment) (common.Address, error) {
	if len(signed.Signature) != types.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d",
			types.SignatureLength, len(signed.Signature))
	}

	sig := make([]byte, types.SignatureLength)
	copy(sig, signed.Signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return common.Address{}, fmt.Errorf("invalid recovery id %d", sig[64])
	}

	pub, err := crypto.SigToPub(signed.Payment.SigningDigest(), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("ecrecover: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
