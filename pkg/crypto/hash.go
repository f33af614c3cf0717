// Package crypto provides the Sui key schemes, address derivation and
// transaction signing used by the coinlock client.
package crypto

import (
	"github.com/Klingon-tech/coinlock/pkg/types"
	"golang.org/x/crypto/blake2b"
)

// Hash computes a BLAKE2b-256 hash of the input data.
func Hash(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// AddressFromPubKey derives a Sui address from a scheme flag and public key.
// Address = BLAKE2b-256(flag || pubkey).
func AddressFromPubKey(scheme Scheme, pubKey []byte) types.Address {
	buf := make([]byte, 0, 1+len(pubKey))
	buf = append(buf, byte(scheme))
	buf = append(buf, pubKey...)
	return types.Address(Hash(buf))
}
