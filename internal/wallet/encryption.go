package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Envelope errors.
var (
	ErrWrongPassword    = errors.New("wrong password or corrupted wallet")
	ErrEnvelopeTooShort = errors.New("encrypted secret too short")
)

const (
	envelopeVersion = 1
	saltSize        = 16
	// version(1) | memory(4) | iterations(4) | parallelism(1) | salt(16) | nonce(24) | sealed
	envelopeHeader = 1 + 4 + 4 + 1 + saltSize
)

// EncryptionParams are the Argon2id cost parameters stored with each
// encrypted secret.
type EncryptionParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams returns the Argon2id costs used for new wallets.
func DefaultParams() EncryptionParams {
	return EncryptionParams{Memory: 64 * 1024, Iterations: 3, Parallelism: 4}
}

func (p EncryptionParams) validate() error {
	if p.Iterations == 0 || p.Parallelism == 0 {
		return fmt.Errorf("argon2: iterations and parallelism must be positive")
	}
	if p.Memory < 8*uint32(p.Parallelism) {
		return fmt.Errorf("argon2: memory %d KiB too small for parallelism %d", p.Memory, p.Parallelism)
	}
	return nil
}

func (p EncryptionParams) key(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, p.Iterations, p.Memory, p.Parallelism, chacha20poly1305.KeySize)
}

// Encrypt seals secret under password with Argon2id and XChaCha20-Poly1305.
// The header is authenticated as associated data.
func Encrypt(secret, password []byte, params EncryptionParams) ([]byte, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	header := make([]byte, 0, envelopeHeader)
	header = append(header, envelopeVersion)
	header = binary.BigEndian.AppendUint32(header, params.Memory)
	header = binary.BigEndian.AppendUint32(header, params.Iterations)
	header = append(header, params.Parallelism)
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	header = append(header, salt...)

	key := params.key(password, salt)
	defer zero(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, len(header)+len(nonce)+len(secret)+aead.Overhead())
	out = append(out, header...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, secret, header), nil
}

// Decrypt opens an envelope produced by Encrypt. A wrong password yields
// ErrWrongPassword.
func Decrypt(envelope, password []byte) ([]byte, error) {
	nonceEnd := envelopeHeader + chacha20poly1305.NonceSizeX
	if len(envelope) < nonceEnd+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("%w: %d bytes", ErrEnvelopeTooShort, len(envelope))
	}
	if envelope[0] != envelopeVersion {
		return nil, fmt.Errorf("unsupported envelope version %d", envelope[0])
	}
	params := EncryptionParams{
		Memory:      binary.BigEndian.Uint32(envelope[1:5]),
		Iterations:  binary.BigEndian.Uint32(envelope[5:9]),
		Parallelism: envelope[9],
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	header := envelope[:envelopeHeader]
	salt := header[envelopeHeader-saltSize:]

	key := params.key(password, salt)
	defer zero(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	secret, err := aead.Open(nil, envelope[envelopeHeader:nonceEnd], envelope[nonceEnd:], header)
	if err != nil {
		return nil, ErrWrongPassword
	}
	return secret, nil
}
