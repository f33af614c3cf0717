package wallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/Klingon-tech/coinlock/pkg/crypto"
	"github.com/tyler-smith/go-bip32"
)

// Derivation path constants.
//
//	Ed25519:   m/44'/784'/account'/0'/index'  (SLIP-0010, all hardened)
//	Secp256k1: m/54'/784'/account'/0/index    (BIP-32)
const (
	// PurposeEd25519 is the purpose field for Ed25519 keys (hardened).
	PurposeEd25519 = bip32.FirstHardenedChild + 44

	// PurposeSecp256k1 is the purpose field for Secp256k1 keys (hardened).
	PurposeSecp256k1 = bip32.FirstHardenedChild + 54

	// CoinTypeSui is the SLIP-44 coin type of Sui (hardened).
	CoinTypeSui = bip32.FirstHardenedChild + 784
)

// DerivePath returns the derivation path string for display.
func DerivePath(scheme crypto.Scheme, account, index uint32) string {
	if scheme == crypto.Secp256k1 {
		return fmt.Sprintf("m/54'/784'/%d'/0/%d", account, index)
	}
	return fmt.Sprintf("m/44'/784'/%d'/0'/%d'", account, index)
}

// DeriveKeypair derives the keypair for (account, index) of the given
// scheme from a BIP-39 seed.
func DeriveKeypair(seed []byte, scheme crypto.Scheme, account, index uint32) (crypto.Keypair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	var priv []byte
	var err error
	switch scheme {
	case crypto.Ed25519:
		priv, err = deriveEd25519(seed,
			PurposeEd25519,
			CoinTypeSui,
			bip32.FirstHardenedChild+account,
			bip32.FirstHardenedChild,
			bip32.FirstHardenedChild+index,
		)
	case crypto.Secp256k1:
		priv, err = deriveSecp256k1(seed,
			PurposeSecp256k1,
			CoinTypeSui,
			bip32.FirstHardenedChild+account,
			0,
			index,
		)
	default:
		return nil, fmt.Errorf("unsupported scheme %s", scheme)
	}
	if err != nil {
		return nil, err
	}
	defer zero(priv)
	return crypto.NewKeypair(scheme, priv)
}

// deriveSecp256k1 walks a BIP-32 path and returns the 32-byte private key.
func deriveSecp256k1(seed []byte, path ...uint32) ([]byte, error) {
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	for _, idx := range path {
		key, err = key.NewChildKey(idx)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", idx, err)
		}
	}
	// Key is the raw scalar; left-pad in case it has leading zero bytes.
	raw := key.Key
	if len(raw) == 33 && raw[0] == 0 {
		raw = raw[1:]
	}
	if len(raw) > crypto.PrivateKeySize {
		return nil, fmt.Errorf("unexpected private key length %d", len(raw))
	}
	out := make([]byte, crypto.PrivateKeySize)
	copy(out[crypto.PrivateKeySize-len(raw):], raw)
	return out, nil
}

// slip10Ed25519Key is the HMAC key for the SLIP-0010 ed25519 master node.
var slip10Ed25519Key = []byte("ed25519 seed")

// deriveEd25519 walks a SLIP-0010 ed25519 path. Ed25519 only supports
// hardened children.
func deriveEd25519(seed []byte, path ...uint32) ([]byte, error) {
	mac := hmac.New(sha512.New, slip10Ed25519Key)
	mac.Write(seed)
	sum := mac.Sum(nil)
	key, chain := sum[:32], sum[32:]

	for _, idx := range path {
		if idx < bip32.FirstHardenedChild {
			return nil, fmt.Errorf("ed25519 derivation requires hardened index, got %d", idx)
		}
		data := make([]byte, 0, 1+32+4)
		data = append(data, 0)
		data = append(data, key...)
		data = binary.BigEndian.AppendUint32(data, idx)

		mac = hmac.New(sha512.New, chain)
		mac.Write(data)
		next := mac.Sum(nil)
		zero(sum)
		sum = next
		key, chain = sum[:32], sum[32:]
	}

	out := make([]byte, 32)
	copy(out, key)
	zero(sum)
	return out, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
