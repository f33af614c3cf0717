package types

import (
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// DigestSize is the length of an object or transaction digest in bytes.
const DigestSize = 32

// Digest is a 256-bit digest, base58-encoded on the wire.
type Digest [DigestSize]byte

// IsZero returns true if the digest is all zeros.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// String returns the base58 encoding.
func (d Digest) String() string {
	return base58.Encode(d[:])
}

// MarshalJSON encodes the digest as a base58 string.
func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a base58 string into a digest.
func (d *Digest) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Digest{}
		return nil
	}
	parsed, err := ParseDigest(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest decodes a base58 digest string.
func ParseDigest(s string) (Digest, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid digest: %w", err)
	}
	if len(b) != DigestSize {
		return Digest{}, fmt.Errorf("digest must be %d bytes, got %d", DigestSize, len(b))
	}
	var d Digest
	copy(d[:], b)
	return d, nil
}
