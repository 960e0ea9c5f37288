package config

import (
	"context"
	"math/big"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
	if cfg.Client.TimeoutSec != 30 {
		t.Errorf("timeout = %d, want 30", cfg.Client.TimeoutSec)
	}
	if !cfg.Client.AutoPay {
		t.Error("auto_pay default is false, want true")
	}
	if cfg.Signer.Backend != "local" {
		t.Errorf("signer backend = %q, want local", cfg.Signer.Backend)
	}
	if cfg.Server.Network != "base" {
		t.Errorf("network = %q, want base", cfg.Server.Network)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("X402_LOG_LEVEL", "debug")
	t.Setenv("X402_SERVER_NETWORK", "base-sepolia")
	t.Setenv("X402_CLIENT_TIMEOUT_SEC", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if cfg.Server.Network != "base-sepolia" {
		t.Errorf("network = %q, want base-sepolia", cfg.Server.Network)
	}
	if cfg.Client.TimeoutSec != 10 {
		t.Errorf("timeout = %d, want 10", cfg.Client.TimeoutSec)
	}
}

func TestMaxAmountValue(t *testing.T) {
	c := ClientConfig{MaxAmount: "1000000"}
	v, err := c.MaxAmountValue()
	if err != nil {
		t.Fatal(err)
	}
	if v.Cmp(big.NewInt(1000000)) != 0 {
		t.Errorf("ceiling = %s, want 1000000", v)
	}

	c = ClientConfig{}
	v, err = c.MaxAmountValue()
	if err != nil || v != nil {
		t.Errorf("empty ceiling = %v, %v; want nil, nil", v, err)
	}

	c = ClientConfig{MaxAmount: "1.5"}
	if _, err := c.MaxAmountValue(); err == nil {
		t.Error("fractional ceiling accepted")
	}
}

func TestNewSigner_UnknownBackend(t *testing.T) {
	if _, err := NewSigner(context.Background(), SignerConfig{Backend: "vault"}); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestNewSigner_KMSRequiresKeyID(t *testing.T) {
	if _, err := NewSigner(context.Background(), SignerConfig{Backend: "kms"}); err == nil {
		t.Error("kms backend without key id accepted")
	}
}
