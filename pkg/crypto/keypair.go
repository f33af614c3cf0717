package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/Klingon-tech/coinlock/pkg/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Scheme is the signature scheme flag byte prefixed to keys and signatures.
type Scheme byte

// Supported schemes.
const (
	Ed25519   Scheme = 0x00
	Secp256k1 Scheme = 0x01
)

// String returns the scheme name used by the Sui tooling.
func (s Scheme) String() string {
	switch s {
	case Ed25519:
		return "ed25519"
	case Secp256k1:
		return "secp256k1"
	default:
		return fmt.Sprintf("scheme(%d)", byte(s))
	}
}

// ParseScheme parses a scheme name.
func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "ed25519", "":
		return Ed25519, nil
	case "secp256k1":
		return Secp256k1, nil
	default:
		return 0, fmt.Errorf("unknown key scheme %q", s)
	}
}

// PrivateKeySize is the raw private key length for both schemes.
const PrivateKeySize = 32

// Signer signs Sui intent digests.
type Signer interface {
	// Scheme returns the key's signature scheme.
	Scheme() Scheme
	// PublicKey returns the public key bytes (32 for ed25519, 33 compressed for secp256k1).
	PublicKey() []byte
	// Sign signs a 32-byte intent digest and returns the raw 64-byte signature.
	Sign(digest []byte) ([]byte, error)
}

// Keypair is a Signer that also exposes its private key and address.
type Keypair interface {
	Signer
	// PrivateKey returns the raw 32-byte private key.
	PrivateKey() []byte
	// Address returns the Sui address controlled by this key.
	Address() types.Address
	// Zero wipes the private key. The keypair must not be used afterwards.
	Zero()
}

// NewKeypair builds a keypair of the given scheme from a 32-byte private key.
func NewKeypair(scheme Scheme, priv []byte) (Keypair, error) {
	if len(priv) != PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", PrivateKeySize, len(priv))
	}
	switch scheme {
	case Ed25519:
		return &Ed25519Keypair{key: ed25519.NewKeyFromSeed(priv)}, nil
	case Secp256k1:
		return &Secp256k1Keypair{key: secp256k1.PrivKeyFromBytes(priv)}, nil
	default:
		return nil, fmt.Errorf("unsupported scheme %s", scheme)
	}
}

// ── Ed25519 ──────────────────────────────────────────────────────────────

// Ed25519Keypair signs with Ed25519.
type Ed25519Keypair struct {
	key ed25519.PrivateKey
}

// Scheme implements Signer.
func (k *Ed25519Keypair) Scheme() Scheme { return Ed25519 }

// PublicKey implements Signer.
func (k *Ed25519Keypair) PublicKey() []byte {
	return []byte(k.key.Public().(ed25519.PublicKey))
}

// Sign implements Signer.
func (k *Ed25519Keypair) Sign(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, fmt.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	return ed25519.Sign(k.key, digest), nil
}

// PrivateKey implements Keypair.
func (k *Ed25519Keypair) PrivateKey() []byte {
	return k.key.Seed()
}

// Address implements Keypair.
func (k *Ed25519Keypair) Address() types.Address {
	return AddressFromPubKey(Ed25519, k.PublicKey())
}

// Zero implements Keypair.
func (k *Ed25519Keypair) Zero() {
	for i := range k.key {
		k.key[i] = 0
	}
}

// ── Secp256k1 ────────────────────────────────────────────────────────────

// Secp256k1Keypair signs with ECDSA over secp256k1. The digest is hashed
// again with SHA-256 before signing, as the network expects.
type Secp256k1Keypair struct {
	key *secp256k1.PrivateKey
}

// Scheme implements Signer.
func (k *Secp256k1Keypair) Scheme() Scheme { return Secp256k1 }

// PublicKey implements Signer.
func (k *Secp256k1Keypair) PublicKey() []byte {
	return k.key.PubKey().SerializeCompressed()
}

// Sign implements Signer. Returns r || s with a low s value.
func (k *Secp256k1Keypair) Sign(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, fmt.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	h := sha256.Sum256(digest)
	compact := ecdsa.SignCompact(k.key, h[:], true)
	// Drop the recovery byte.
	return compact[1:], nil
}

// PrivateKey implements Keypair.
func (k *Secp256k1Keypair) PrivateKey() []byte {
	return k.key.Serialize()
}

// Address implements Keypair.
func (k *Secp256k1Keypair) Address() types.Address {
	return AddressFromPubKey(Secp256k1, k.PublicKey())
}

// Zero implements Keypair.
func (k *Secp256k1Keypair) Zero() {
	k.key.Zero()
}

// VerifySignature checks a raw signature over a 32-byte digest.
// Returns false on any error.
func VerifySignature(scheme Scheme, digest, signature, publicKey []byte) bool {
	switch scheme {
	case Ed25519:
		if len(publicKey) != ed25519.PublicKeySize {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(publicKey), digest, signature)
	case Secp256k1:
		if len(signature) != 64 {
			return false
		}
		pub, err := secp256k1.ParsePubKey(publicKey)
		if err != nil {
			return false
		}
		var r, s secp256k1.ModNScalar
		if overflow := r.SetByteSlice(signature[:32]); overflow {
			return false
		}
		if overflow := s.SetByteSlice(signature[32:]); overflow {
			return false
		}
		h := sha256.Sum256(digest)
		return ecdsa.NewSignature(&r, &s).Verify(h[:], pub)
	default:
		return false
	}
}
