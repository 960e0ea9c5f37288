// Package utils provides amount and address helpers shared by the SDK.
package utils

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ParseAtomicAmount converts a human-denominated amount string (for
// example "0.001" with 6 decimals) into atomic units. The amount must be
// non-negative and representable without rounding.
func ParseAtomicAmount(amount string, decimals int32) (*big.Int, error) {
	if amount == "" {
		return nil, fmt.Errorf("amount cannot be empty")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount format: %w", err)
	}
	if dec.IsNegative() {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	atomic := dec.Shift(decimals)
	if !atomic.IsInteger() {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}
	return atomic.BigInt(), nil
}

// FormatAtomicAmount renders an atomic amount in human-denominated form.
func FormatAtomicAmount(amount *big.Int, decimals int32) string {
	return decimal.NewFromBigInt(amount, -decimals).String()
}

// ParseAmount parses an atomic (base-10 integer) amount string.
func ParseAmount(amount string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %q", amount)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("amount cannot be negative")
	}
	return v, nil
}

// ValidateAddress checks if a string is a valid hex address.
func ValidateAddress(address string) bool {
	return common.IsHexAddress(address)
}

// ChecksumAddress parses an address string to its canonical 20-byte value.
func ChecksumAddress(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("invalid address: %q", address)
	}
	return common.HexToAddress(address), nil
}
