package crypto

import (
	"encoding/base64"
	"fmt"
)

// transactionIntent is Intent{scope: TransactionData, version: V0, app: Sui}.
var transactionIntent = [3]byte{0, 0, 0}

// IntentDigest returns BLAKE2b-256(intent || txBytes), the message every
// transaction signature commits to.
func IntentDigest(txBytes []byte) [32]byte {
	msg := make([]byte, 0, len(transactionIntent)+len(txBytes))
	msg = append(msg, transactionIntent[:]...)
	msg = append(msg, txBytes...)
	return Hash(msg)
}

// SignTransaction signs BCS transaction bytes and returns the serialized
// signature (flag || sig || pubkey) in base64, ready for
// sui_executeTransactionBlock.
func SignTransaction(s Signer, txBytes []byte) (string, error) {
	digest := IntentDigest(txBytes)
	sig, err := s.Sign(digest[:])
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}
	pub := s.PublicKey()

	out := make([]byte, 0, 1+len(sig)+len(pub))
	out = append(out, byte(s.Scheme()))
	out = append(out, sig...)
	out = append(out, pub...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// ParseSerializedSignature splits a base64 serialized signature into its parts.
func ParseSerializedSignature(b64 string) (Scheme, []byte, []byte, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("decode signature: %w", err)
	}
	if len(raw) < 1+64 {
		return 0, nil, nil, fmt.Errorf("signature too short: %d bytes", len(raw))
	}
	scheme := Scheme(raw[0])
	var pubLen int
	switch scheme {
	case Ed25519:
		pubLen = 32
	case Secp256k1:
		pubLen = 33
	default:
		return 0, nil, nil, fmt.Errorf("unsupported scheme flag %d", raw[0])
	}
	if len(raw) != 1+64+pubLen {
		return 0, nil, nil, fmt.Errorf("signature length %d, want %d", len(raw), 1+64+pubLen)
	}
	return scheme, raw[1:65], raw[65:], nil
}
