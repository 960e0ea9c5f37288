package utils

import (
	"math/big"
	"testing"
)

func TestParseAtomicAmount(t *testing.T) {
	tests := map[string]struct {
		amount   string
		decimals int32
		want     string
		wantErr  bool
	}{
		"usdc fraction":      {"0.001", 6, "1000", false},
		"whole usdc":         {"1", 6, "1000000", false},
		"eighteen decimals":  {"1.5", 18, "1500000000000000000", false},
		"zero":               {"0", 6, "0", false},
		"empty":              {"", 6, "", true},
		"negative":           {"-1", 6, "", true},
		"not a number":       {"abc", 6, "", true},
		"too much precision": {"0.0000001", 6, "", true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseAtomicAmount(tc.amount, tc.decimals)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseAtomicAmount(%q, %d) = %s, want error", tc.amount, tc.decimals, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAtomicAmount(%q, %d): %v", tc.amount, tc.decimals, err)
			}
			if got.String() != tc.want {
				t.Errorf("ParseAtomicAmount(%q, %d) = %s, want %s", tc.amount, tc.decimals, got, tc.want)
			}
		})
	}
}

func TestFormatAtomicAmount(t *testing.T) {
	got := FormatAtomicAmount(big.NewInt(1500000), 6)
	if got != "1.5" {
		t.Errorf("FormatAtomicAmount(1500000, 6) = %q, want 1.5", got)
	}
}

func TestParseAtomicAmount_RoundTrip(t *testing.T) {
	atomic, err := ParseAtomicAmount("12.345678", 6)
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatAtomicAmount(atomic, 6); got != "12.345678" {
		t.Errorf("round trip = %q, want 12.345678", got)
	}
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("1000000")
	if err != nil {
		t.Fatal(err)
	}
	if v.Cmp(big.NewInt(1000000)) != 0 {
		t.Errorf("ParseAmount = %s, want 1000000", v)
	}

	for _, bad := range []string{"", "1.5", "-1", "0x10", "abc"} {
		if _, err := ParseAmount(bad); err == nil {
			t.Errorf("ParseAmount(%q) accepted invalid input", bad)
		}
	}
}

func TestValidateAddress(t *testing.T) {
	if !ValidateAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266") {
		t.Error("rejected valid address")
	}
	if ValidateAddress("0x123") {
		t.Error("accepted truncated address")
	}
	if ValidateAddress("not an address") {
		t.Error("accepted garbage")
	}
}

func TestChecksumAddress(t *testing.T) {
	addr, err := ChecksumAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	if err != nil {
		t.Fatal(err)
	}
	if addr.Hex() != "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266" {
		t.Errorf("checksum = %s", addr.Hex())
	}

	if _, err := ChecksumAddress("bogus"); err == nil {
		t.Error("accepted invalid address")
	}
}
