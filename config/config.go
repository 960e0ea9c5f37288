// Package config loads SDK configuration for the bundled commands from a
// yaml file and X402_-prefixed environment variables.
package config

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/viper"

	"github.com/girderdev/x402-sdk/signer"
	"github.com/girderdev/x402-sdk/utils"
)

type Config struct {
	Client   ClientConfig `mapstructure:"client"`
	Signer   SignerConfig `mapstructure:"signer"`
	Server   ServerConfig `mapstructure:"server"`
	LogLevel string       `mapstructure:"log_level"`
}

type ClientConfig struct {
	// MaxAmount caps auto-payment, as a base-10 atomic amount.
	// Empty means uncapped.
	MaxAmount  string `mapstructure:"max_amount"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
	AutoPay    bool   `mapstructure:"auto_pay"`
}

type SignerConfig struct {
	// Backend selects the signing implementation: "local" or "kms".
	Backend       string `mapstructure:"backend"`
	PrivateKeyEnv string `mapstructure:"private_key_env"`
	KMSKeyID      string `mapstructure:"kms_key_id"`
	KMSRegion     string `mapstructure:"kms_region"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Network     string `mapstructure:"network"`
	Recipient   string `mapstructure:"recipient"`
	Amount      string `mapstructure:"amount"`
	Description string `mapstructure:"description"`
}

// Load reads config.yaml (optional) and the environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("client.timeout_sec", 30)
	v.SetDefault("client.auto_pay", true)
	v.SetDefault("signer.backend", "local")
	v.SetDefault("signer.private_key_env", signer.DefaultKeyEnv)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.network", "base")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("X402")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// NewSigner builds the signing backend the configuration selects.
func NewSigner(ctx context.Context, cfg SignerConfig) (signer.Signer, error) {
	switch cfg.Backend {
	case "", "local":
		return signer.LocalSignerFromEnv(cfg.PrivateKeyEnv)
	case "kms":
		if cfg.KMSKeyID == "" {
			return nil, fmt.Errorf("signer backend kms requires kms_key_id")
		}
		return signer.NewKMSSigner(ctx, cfg.KMSKeyID, cfg.KMSRegion)
	default:
		return nil, fmt.Errorf("unknown signer backend: %q", cfg.Backend)
	}
}

// MaxAmountValue parses the configured auto-payment ceiling.
// Returns nil when no ceiling is configured.
func (c ClientConfig) MaxAmountValue() (*big.Int, error) {
	if c.MaxAmount == "" {
		return nil, nil
	}
	return utils.ParseAmount(c.MaxAmount)
}
