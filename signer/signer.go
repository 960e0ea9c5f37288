// Package signer defines the signing capability the payment client
// consumes, plus local and AWS KMS backed implementations. The interface
// exposes exactly two operations and never key material, so remote
// key-management backends can satisfy it unchanged.
package signer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/girderdev/x402-sdk/types"
)

type Signer interface {
	// SignPayment signs a payment payload and returns the 65-byte
	// signature (r || s || v, low-s normalized, v in {27,28}).
	SignPayment(ctx context.Context, payload *types.PaymentPayload) ([]byte, error)

	// GetAddress returns the signer's address.
	GetAddress(ctx context.Context) (common.Address, error)
}
