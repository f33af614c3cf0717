package main

import (
	"fmt"

	"github.com/Klingon-tech/coinlock/internal/wallet"
	"github.com/Klingon-tech/coinlock/pkg/crypto"
)

// WalletService manages the local keystore of the selected network.
type WalletService struct {
	app *App
}

// WalletInfo is returned after wallet creation or import.
type WalletInfo struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Scheme   string `json:"scheme"`
	Kind     string `json:"kind"`
	Mnemonic string `json:"mnemonic,omitempty"` // only on create
}

func (w *WalletService) keystore() (*wallet.Keystore, error) {
	cfg, err := w.app.config()
	if err != nil {
		return nil, err
	}
	return wallet.NewKeystore(cfg.KeystoreDir())
}

// ListWallets returns the wallets of the selected network.
func (w *WalletService) ListWallets() ([]WalletInfo, error) {
	ks, err := w.keystore()
	if err != nil {
		return nil, err
	}
	names, err := ks.List()
	if err != nil {
		return nil, err
	}
	out := make([]WalletInfo, 0, len(names))
	for _, name := range names {
		info, err := ks.Info(name)
		if err != nil {
			continue
		}
		wi := WalletInfo{Name: name, Scheme: info.Scheme.String(), Kind: string(info.Kind)}
		if len(info.Accounts) > 0 {
			wi.Address = info.Accounts[0].Address
		}
		out = append(out, wi)
	}
	return out, nil
}

// CreateWallet generates a 24-word mnemonic and stores the new wallet. The
// mnemonic is returned once for the user to write down.
func (w *WalletService) CreateWallet(name, password, scheme string) (*WalletInfo, error) {
	mnemonic, err := wallet.GenerateMnemonic(24)
	if err != nil {
		return nil, err
	}
	info, err := w.ImportWallet(name, mnemonic, password, scheme)
	if err != nil {
		return nil, err
	}
	info.Mnemonic = mnemonic
	return info, nil
}

// ImportWallet stores a wallet restored from a mnemonic.
func (w *WalletService) ImportWallet(name, mnemonic, password, scheme string) (*WalletInfo, error) {
	if password == "" {
		return nil, fmt.Errorf("password must not be empty")
	}
	sch, err := crypto.ParseScheme(scheme)
	if err != nil {
		return nil, err
	}
	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return nil, err
	}
	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()

	ks, err := w.keystore()
	if err != nil {
		return nil, err
	}
	acct, err := ks.Create(name, seed, sch, []byte(password), wallet.DefaultParams())
	if err != nil {
		return nil, err
	}
	return w.selected(name, acct, wallet.KindSeed)
}

// ImportKey stores a wallet holding one suiprivkey private key.
func (w *WalletService) ImportKey(name, key, password string) (*WalletInfo, error) {
	if password == "" {
		return nil, fmt.Errorf("password must not be empty")
	}
	kp, err := crypto.DecodePrivateKey(key)
	if err != nil {
		return nil, err
	}
	ks, err := w.keystore()
	if err != nil {
		return nil, err
	}
	acct, err := ks.Import(name, kp, []byte(password), wallet.DefaultParams())
	if err != nil {
		return nil, err
	}
	return w.selected(name, acct, wallet.KindPrivateKey)
}

// selected makes a new wallet the active one.
func (w *WalletService) selected(name string, acct *wallet.Account, kind wallet.SecretKind) (*WalletInfo, error) {
	if err := w.app.SetActiveWallet(name); err != nil {
		return nil, err
	}
	return &WalletInfo{
		Name:    name,
		Address: acct.Address.String(),
		Scheme:  acct.Scheme.String(),
		Kind:    string(kind),
	}, nil
}
