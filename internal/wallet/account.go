package wallet

import (
	"github.com/Klingon-tech/coinlock/pkg/crypto"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

// Account represents a wallet account.
type Account struct {
	Wallet  string
	Index   uint32
	Scheme  crypto.Scheme
	Address types.Address
}

func newAccount(wallet string, index uint32, kp crypto.Keypair) *Account {
	return &Account{
		Wallet:  wallet,
		Index:   index,
		Scheme:  kp.Scheme(),
		Address: kp.Address(),
	}
}
