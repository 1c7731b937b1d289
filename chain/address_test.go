package chain

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"0x2", "0x" + strings.Repeat("0", 63) + "2"},
		{" 0xABCDEF ", "0x" + strings.Repeat("0", 58) + "abcdef"},
		{"0x" + strings.Repeat("f", 64), "0x" + strings.Repeat("f", 64)},
	}
	for _, tt := range tests {
		if got := NormalizeAddress(tt.in); got != tt.expected {
			t.Errorf("NormalizeAddress(%q): expected %s, got %s", tt.in, tt.expected, got)
		}
	}
}

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"0x2", true},
		{"0X0abc", true},
		{"0x" + strings.Repeat("a", 64), true},
		{"0x" + strings.Repeat("a", 65), false},
		{"abc", false},
		{"0x", false},
		{"0xzz", false},
	}
	for _, tt := range tests {
		if got := IsValidAddress(tt.in); got != tt.valid {
			t.Errorf("IsValidAddress(%q): expected %v, got %v", tt.in, tt.valid, got)
		}
	}
}

func TestAddressFromPublicKey(t *testing.T) {
	pub := make([]byte, 32)
	a := AddressFromPublicKey(SchemeEd25519, pub)
	b := AddressFromPublicKey(SchemeSecp256k1, pub)

	if !IsValidAddress(a) || len(a) != 2+AddressLength*2 {
		t.Errorf("Expected a full-length address, got %s", a)
	}
	if a == b {
		t.Error("Expected the scheme flag to change the address")
	}
	if a != AddressFromPublicKey(SchemeEd25519, pub) {
		t.Error("Expected derivation to be deterministic")
	}
}

func TestParseScheme(t *testing.T) {
	tests := []struct {
		in       string
		expected byte
		ok       bool
	}{
		{"", SchemeEd25519, true},
		{"ED25519", SchemeEd25519, true},
		{" secp256k1 ", SchemeSecp256k1, true},
		{"secp256r1", SchemeSecp256r1, true},
		{"rsa", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseScheme(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseScheme(%q): expected ok=%v, got err %v", tt.in, tt.ok, err)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownScheme) {
			t.Errorf("ParseScheme(%q): expected ErrUnknownScheme, got %v", tt.in, err)
		}
		if tt.ok && got != tt.expected {
			t.Errorf("ParseScheme(%q): expected %d, got %d", tt.in, tt.expected, got)
		}
	}
}
