package types

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// SignatureLength is the size of an ECDSA signature: 32-byte r, 32-byte s
// and a one-byte recovery id.
const SignatureLength = 65

// PaymentRequirements describes the payment a resource server demands.
// It is constructed per request and returned in a 402 response.
type PaymentRequirements struct {
	// Amount required, in the smallest unit of the asset (wei etc.).
	Amount *big.Int `json:"amount" validate:"required"`

	// Recipient address the payment must be sent to.
	Recipient common.Address `json:"recipient"`

	// Network the payment must settle on.
	Network Network `json:"network" validate:"required"`

	// Token contract address. Nil means the native asset.
	Token *common.Address `json:"token,omitempty"`

	// Description of the resource being purchased.
	Description string `json:"description,omitempty"`

	// ExpiresAt is the unix time the offer expires. Zero means the server
	// did not set one and the client applies its default window.
	ExpiresAt uint64 `json:"expiresAt,omitempty"`

	// Resource uniquely identifies what is being paid for.
	Resource string `json:"resource" validate:"required"`
}

// Validate checks that the requirements contain all required fields.
func (r *PaymentRequirements) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Amount.Sign() < 0 {
		return fmt.Errorf("amount must not be negative, got %s", r.Amount)
	}
	if !r.Network.Valid() {
		return fmt.Errorf("unsupported network: %s", r.Network)
	}
	return nil
}

// PaymentPayload is a single payment attempt, built by the client from the
// server's requirements. It is immutable once built and consumed exactly
// once by signing.
type PaymentPayload struct {
	Amount    *big.Int        `json:"amount" validate:"required"`
	Recipient common.Address  `json:"recipient"`
	Payer     common.Address  `json:"payer"`
	ChainID   uint64          `json:"chainId" validate:"required"`
	Token     *common.Address `json:"token,omitempty"`
	Resource  string          `json:"resource" validate:"required"`
	Nonce     uint64          `json:"nonce"`
	ExpiresAt uint64          `json:"expiresAt" validate:"required"`
}

// Validate checks that the payload contains all required fields.
func (p *PaymentPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if p.Amount.Sign() < 0 {
		return fmt.Errorf("amount must not be negative, got %s", p.Amount)
	}
	return nil
}

// MessageHash returns the keccak256 digest of the canonical text form of
// the payload. The encoding is fixed: checksummed addresses and base-10
// integers in a fixed field order. Signing and verification both hash
// through here, so the two sides can never disagree on the pre-image.
func (p *PaymentPayload) MessageHash() common.Hash {
	message := fmt.Sprintf(
		"x402 Payment\nAmount: %s\nRecipient: %s\nPayer: %s\nChainId: %d\nResource: %s\nNonce: %d\nExpires: %d",
		p.Amount.String(),
		p.Recipient.Hex(),
		p.Payer.Hex(),
		p.ChainID,
		p.Resource,
		p.Nonce,
		p.ExpiresAt,
	)
	return crypto.Keccak256Hash([]byte(message))
}

// SigningDigest returns the EIP-191 prefixed digest of MessageHash.
// This is the exact 32 bytes signers sign and verification recovers from.
func (p *PaymentPayload) SigningDigest() []byte {
	hash := p.MessageHash()
	return accounts.TextHash(hash.Bytes())
}

// SignedPayment is a payment payload plus its ECDSA signature,
// transmitted in the X-Payment header and consumed once by verification.
type SignedPayment struct {
	Payment   PaymentPayload `json:"payment"`
	Signature hexutil.Bytes  `json:"signature"`
}

// Validate checks the payload and the signature length.
func (s *SignedPayment) Validate() error {
	if err := s.Payment.Validate(); err != nil {
		return err
	}
	if len(s.Signature) != SignatureLength {
		return fmt.Errorf("signature must be %d bytes, got %d", SignatureLength, len(s.Signature))
	}
	return nil
}
