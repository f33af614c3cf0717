// Package types defines the Sui primitive types used by the coinlock client.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// AddressSize is the length of a Sui address or object ID in bytes.
const AddressSize = 32

// Address is a 256-bit Sui account address.
type Address [AddressSize]byte

// ObjectID identifies an on-chain object. It shares the address encoding.
type ObjectID = Address

// Well-known system objects.
var (
	// ClockObjectID is the shared 0x6 clock object.
	ClockObjectID = MustParseAddress("0x6")
)

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the 0x-prefixed, zero-padded hex form used by Sui RPC.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Short returns an abbreviated form for tables (0x1234…abcd).
func (a Address) Short() string {
	h := hex.EncodeToString(a[:])
	return "0x" + h[:4] + "…" + h[len(h)-4:]
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// MarshalJSON encodes the address as a 0x-prefixed hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a 0x-prefixed (possibly short) hex string.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses a hex address with or without the 0x prefix.
// Short forms such as "0x6" are left-padded with zeros.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}, fmt.Errorf("empty address")
	}
	hexStr := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if hexStr == "" {
		return Address{}, fmt.Errorf("invalid address %q", s)
	}
	if len(hexStr) > AddressSize*2 {
		return Address{}, fmt.Errorf("address must be at most %d bytes, got %d hex chars", AddressSize, len(hexStr))
	}
	hexStr = strings.Repeat("0", AddressSize*2-len(hexStr)) + hexStr

	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address: %w", err)
	}
	var a Address
	copy(a[:], decoded)
	return a, nil
}

// MustParseAddress is like ParseAddress but panics on error.
// Only for package-level constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}
