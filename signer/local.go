package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/girderdev/x402-sdk/types"
)

// DefaultKeyEnv is the environment variable LocalSignerFromEnv reads.
const DefaultKeyEnv = "X402_PRIVATE_KEY"

// LocalSigner signs with an in-memory secp256k1 key. Intended for
// development and tests; production deployments should use KMSSigner or
// another remote backend so keys never enter process memory.
type LocalSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewLocalSigner wraps an existing private key.
func NewLocalSigner(key *ecdsa.PrivateKey) *LocalSigner {
	return &LocalSigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// LocalSignerFromHex creates a signer from a hex private key,
// with or without the 0x prefix.
func LocalSignerFromHex(hexKey string) (*LocalSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return NewLocalSigner(key), nil
}

// LocalSignerFromEnv creates a signer from the private key in the given
// environment variable. An empty name uses DefaultKeyEnv.
func LocalSignerFromEnv(envVar string) (*LocalSigner, error) {
	if envVar == "" {
		envVar = DefaultKeyEnv
	}
	hexKey := os.Getenv(envVar)
	if hexKey == "" {
		return nil, fmt.Errorf("environment variable %s is not set", envVar)
	}
	return LocalSignerFromHex(hexKey)
}

// LocalSignerFromKeystore creates a signer from an encrypted geth
// keystore file.
func LocalSignerFromKeystore(path, password string) (*LocalSigner, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}
	key, err := keystore.DecryptKey(raw, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt keystore: %w", err)
	}
	return NewLocalSigner(key.PrivateKey), nil
}

// GenerateLocalSigner creates a signer with a fresh random key.
// Useful for tests.
func GenerateLocalSigner() (*LocalSigner, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return NewLocalSigner(key), nil
}

// SignPayment signs the payload's EIP-191 digest.
func (s *LocalSigner) SignPayment(_ context.Context, payload *types.PaymentPayload) ([]byte, error) {
	sig, err := crypto.Sign(payload.SigningDigest(), s.key)
	if err != nil {
		return nil, fmt.Errorf("sign payment: %w", err)
	}
	// crypto.Sign returns v in {0,1}; the wire convention is {27,28}
	sig[64] += 27
	return sig, nil
}

func (s *LocalSigner) GetAddress(context.Context) (common.Address, error) {
	return s.address, nil
}
