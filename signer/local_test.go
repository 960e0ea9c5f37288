package signer

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/girderdev/x402-sdk/types"
)

// Well-known development key (anvil account 0).
const (
	testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func testPayload(payer common.Address) *types.PaymentPayload {
	return &types.PaymentPayload{
		Amount:    big.NewInt(1000),
		Recipient: common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		Payer:     payer,
		ChainID:   8453,
		Resource:  "/api/test",
		Nonce:     1,
		ExpiresAt: 1900000000,
	}
}

func TestLocalSignerFromHex_Address(t *testing.T) {
	s, err := LocalSignerFromHex(testPrivateKey)
	if err != nil {
		t.Fatal(err)
	}
	addr, err := s.GetAddress(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if addr != common.HexToAddress(testAddress) {
		t.Errorf("address = %s, want %s", addr.Hex(), testAddress)
	}
}

func TestLocalSignerFromHex_ZeroXPrefix(t *testing.T) {
	if _, err := LocalSignerFromHex("0x" + testPrivateKey); err != nil {
		t.Errorf("0x-prefixed key rejected: %v", err)
	}
}

func TestLocalSignerFromEnv(t *testing.T) {
	t.Setenv(DefaultKeyEnv, testPrivateKey)
	if _, err := LocalSignerFromEnv(""); err != nil {
		t.Errorf("signer from env: %v", err)
	}

	t.Setenv(DefaultKeyEnv, "")
	if _, err := LocalSignerFromEnv(""); err == nil {
		t.Error("unset env accepted")
	}
}

func TestLocalSigner_SignPayment(t *testing.T) {
	s, err := GenerateLocalSigner()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	addr, _ := s.GetAddress(ctx)
	payload := testPayload(addr)

	sig, err := s.SignPayment(ctx, payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(sig) != types.SignatureLength {
		t.Fatalf("signature length = %d, want %d", len(sig), types.SignatureLength)
	}
	if sig[64] != 27 && sig[64] != 28 {
		t.Errorf("recovery id = %d, want 27 or 28", sig[64])
	}

	// Recover against the same digest the signer used
	recSig := make([]byte, len(sig))
	copy(recSig, sig)
	recSig[64] -= 27
	pub, err := crypto.SigToPub(payload.SigningDigest(), recSig)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if got := crypto.PubkeyToAddress(*pub); got != addr {
		t.Errorf("recovered %s, want %s", got.Hex(), addr.Hex())
	}
}

func TestLocalSigner_SignatureDependsOnPayload(t *testing.T) {
	s, err := GenerateLocalSigner()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	addr, _ := s.GetAddress(ctx)

	a := testPayload(addr)
	b := testPayload(addr)
	b.Nonce = 2

	sigA, _ := s.SignPayment(ctx, a)
	sigB, _ := s.SignPayment(ctx, b)
	if string(sigA) == string(sigB) {
		t.Error("different payloads produced the same signature")
	}
}
