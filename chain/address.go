package chain

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// AddressLength Sui addresses are 32 bytes
const AddressLength = 32

// Signature scheme flags prefixed to the public key before hashing
const (
	SchemeEd25519   byte = 0x00
	SchemeSecp256k1 byte = 0x01
	SchemeSecp256r1 byte = 0x02
)

var ErrUnknownScheme = errors.New("unknown signature scheme")

// ParseScheme scheme flag by name; empty selects ed25519
func ParseScheme(name string) (byte, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ed25519":
		return SchemeEd25519, nil
	case "secp256k1":
		return SchemeSecp256k1, nil
	case "secp256r1":
		return SchemeSecp256r1, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}

// NormalizeAddress lowercases, adds the 0x prefix and left-pads to 32 bytes
func NormalizeAddress(addr string) string {
	a := strings.ToLower(strings.TrimSpace(addr))
	a = strings.TrimPrefix(a, "0x")
	if len(a) < AddressLength*2 {
		a = strings.Repeat("0", AddressLength*2-len(a)) + a
	}
	return "0x" + a
}

// IsValidAddress reports whether addr is a hex Sui address
func IsValidAddress(addr string) bool {
	a := strings.TrimSpace(addr)
	if !strings.HasPrefix(a, "0x") && !strings.HasPrefix(a, "0X") {
		return false
	}
	a = a[2:]
	if len(a) == 0 || len(a) > AddressLength*2 {
		return false
	}
	if len(a)%2 == 1 {
		a = "0" + a
	}
	_, err := hex.DecodeString(a)
	return err == nil
}

// AddressFromPublicKey derives the address of a public key: blake2b-256(flag || pubkey)
func AddressFromPublicKey(scheme byte, pubKey []byte) string {
	buf := make([]byte, 0, len(pubKey)+1)
	buf = append(buf, scheme)
	buf = append(buf, pubKey...)
	sum := blake2b.Sum256(buf)
	return "0x" + hex.EncodeToString(sum[:])
}
