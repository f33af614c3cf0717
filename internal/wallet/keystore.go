package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Klingon-tech/coinlock/pkg/crypto"
)

// ErrWalletNotFound is returned when no wallet file exists for a name.
var ErrWalletNotFound = errors.New("wallet not found")

// SecretKind says what the encrypted secret of a wallet file holds.
type SecretKind string

const (
	// KindSeed wallets hold a BIP-39 seed and derive keys on unlock.
	KindSeed SecretKind = "seed"
	// KindPrivateKey wallets hold a single imported private key.
	KindPrivateKey SecretKind = "privkey"
)

// keystoreFile is the on-disk JSON format for an encrypted wallet.
type keystoreFile struct {
	Version         int            `json:"version"`
	CreatedAt       time.Time      `json:"created_at"`
	Kind            SecretKind     `json:"kind"`
	Scheme          string         `json:"scheme"`
	EncryptedSecret []byte         `json:"encrypted_secret"`
	Accounts        []AccountEntry `json:"accounts"`
}

// AccountEntry stores metadata for a derived account.
type AccountEntry struct {
	Index   uint32 `json:"index"`
	Name    string `json:"name"`
	Address string `json:"address"` // 0x-prefixed hex
}

// WalletInfo is the unencrypted metadata of a wallet file.
type WalletInfo struct {
	Name      string
	Kind      SecretKind
	Scheme    crypto.Scheme
	CreatedAt time.Time
	Accounts  []AccountEntry
}

// Keystore manages encrypted key storage on disk.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore that reads/writes to the given directory.
// The directory is created if it doesn't exist.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

// walletPath returns the file path for a wallet by name.
func (ks *Keystore) walletPath(name string) string {
	return filepath.Join(ks.path, name+".wallet")
}

// Exists reports whether a wallet file exists.
func (ks *Keystore) Exists(name string) bool {
	_, err := os.Stat(ks.walletPath(name))
	return err == nil
}

// Create creates a new encrypted wallet from a BIP-39 seed and records the
// first account of the given scheme.
func (ks *Keystore) Create(name string, seed []byte, scheme crypto.Scheme, password []byte, params EncryptionParams) (*Account, error) {
	kp, err := DeriveKeypair(seed, scheme, 0, 0)
	if err != nil {
		return nil, err
	}
	if err := ks.create(name, KindSeed, scheme, seed, kp, password, params); err != nil {
		return nil, err
	}
	return newAccount(name, 0, kp), nil
}

// Import creates a wallet holding a single private key.
func (ks *Keystore) Import(name string, kp crypto.Keypair, password []byte, params EncryptionParams) (*Account, error) {
	if err := ks.create(name, KindPrivateKey, kp.Scheme(), kp.PrivateKey(), kp, password, params); err != nil {
		return nil, err
	}
	return newAccount(name, 0, kp), nil
}

func (ks *Keystore) create(name string, kind SecretKind, scheme crypto.Scheme, secret []byte, kp crypto.Keypair, password []byte, params EncryptionParams) error {
	path := ks.walletPath(name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("wallet %q already exists", name)
	}

	encrypted, err := Encrypt(secret, password, params)
	if err != nil {
		return fmt.Errorf("encrypt secret: %w", err)
	}

	kf := keystoreFile{
		Version:         1,
		CreatedAt:       time.Now().UTC(),
		Kind:            kind,
		Scheme:          scheme.String(),
		EncryptedSecret: encrypted,
		Accounts: []AccountEntry{{
			Index:   0,
			Name:    "default",
			Address: kp.Address().String(),
		}},
	}
	return ks.writeFile(path, &kf)
}

// Load decrypts a wallet and returns its raw secret (seed or private key).
func (ks *Keystore) Load(name string, password []byte) ([]byte, error) {
	kf, err := ks.readFile(ks.walletPath(name))
	if err != nil {
		return nil, err
	}

	secret, err := Decrypt(kf.EncryptedSecret, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt wallet: %w", err)
	}
	return secret, nil
}

// Unlock decrypts a wallet and returns the keypair of its first account.
func (ks *Keystore) Unlock(name string, password []byte) (crypto.Keypair, error) {
	kf, err := ks.readFile(ks.walletPath(name))
	if err != nil {
		return nil, err
	}
	scheme, err := crypto.ParseScheme(kf.Scheme)
	if err != nil {
		return nil, err
	}

	secret, err := Decrypt(kf.EncryptedSecret, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt wallet: %w", err)
	}
	defer zero(secret)

	var index uint32
	if len(kf.Accounts) > 0 {
		index = kf.Accounts[0].Index
	}

	var kp crypto.Keypair
	switch kf.Kind {
	case KindSeed:
		kp, err = DeriveKeypair(secret, scheme, 0, index)
	case KindPrivateKey:
		kp, err = crypto.NewKeypair(scheme, secret)
	default:
		return nil, fmt.Errorf("unsupported wallet kind %q", kf.Kind)
	}
	if err != nil {
		return nil, err
	}

	if len(kf.Accounts) > 0 && kf.Accounts[0].Address != kp.Address().String() {
		return nil, fmt.Errorf("wallet %q: derived address %s does not match stored %s",
			name, kp.Address(), kf.Accounts[0].Address)
	}
	return kp, nil
}

// Info returns the unencrypted metadata of a wallet.
func (ks *Keystore) Info(name string) (*WalletInfo, error) {
	kf, err := ks.readFile(ks.walletPath(name))
	if err != nil {
		return nil, err
	}
	scheme, err := crypto.ParseScheme(kf.Scheme)
	if err != nil {
		return nil, err
	}
	return &WalletInfo{
		Name:      name,
		Kind:      kf.Kind,
		Scheme:    scheme,
		CreatedAt: kf.CreatedAt,
		Accounts:  kf.Accounts,
	}, nil
}

// AddAccount records a derived account in the wallet metadata.
func (ks *Keystore) AddAccount(walletName string, acct AccountEntry) error {
	path := ks.walletPath(walletName)
	kf, err := ks.readFile(path)
	if err != nil {
		return err
	}

	for _, existing := range kf.Accounts {
		if existing.Index == acct.Index {
			// Idempotent insert if metadata points to the same address.
			if existing.Address == acct.Address {
				return nil
			}
			return fmt.Errorf("account index %d already exists", acct.Index)
		}
		if existing.Address != "" && existing.Address == acct.Address {
			return nil
		}
	}

	kf.Accounts = append(kf.Accounts, acct)
	return ks.writeFile(path, kf)
}

// ListAccounts returns the account entries for a wallet.
func (ks *Keystore) ListAccounts(walletName string) ([]AccountEntry, error) {
	kf, err := ks.readFile(ks.walletPath(walletName))
	if err != nil {
		return nil, err
	}
	return kf.Accounts, nil
}

// List returns the names of all wallet files in the keystore.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == ".wallet" {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	return names, nil
}

// Delete removes a wallet file.
func (ks *Keystore) Delete(name string) error {
	path := ks.walletPath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	return os.Remove(path)
}

func (ks *Keystore) writeFile(path string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func (ks *Keystore) readFile(path string) (*keystoreFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, filepath.Base(path))
		}
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if kf.Version != 1 {
		return nil, fmt.Errorf("unsupported wallet version: %d", kf.Version)
	}
	return &kf, nil
}
