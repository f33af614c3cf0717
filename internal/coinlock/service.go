// Package coinlock is the client side of the coin lock contract: it reads
// the account and its lock positions from the chain, builds lock and
// withdraw transactions and hands them to the connected wallet.
package coinlock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Klingon-tech/coinlock/config"
	"github.com/Klingon-tech/coinlock/internal/history"
	"github.com/Klingon-tech/coinlock/internal/suiclient"
	"github.com/Klingon-tech/coinlock/pkg/tx"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

// Chain is the read and dry-run surface of a full node.
// *suiclient.Client implements it.
type Chain interface {
	GetBalance(ctx context.Context, owner types.Address, coinType string) (*suiclient.Balance, error)
	GetCoins(ctx context.Context, owner types.Address, coinType string) ([]suiclient.Coin, error)
	GetOwnedObjects(ctx context.Context, owner types.Address, structType string) ([]*suiclient.Object, error)
	GetObject(ctx context.Context, id types.ObjectID) (*suiclient.Object, error)
	GetDynamicFieldObject(ctx context.Context, parent types.ObjectID, name suiclient.DynamicFieldName) (*suiclient.Object, error)
	GetReferenceGasPrice(ctx context.Context) (uint64, error)
	DryRunTransactionBlock(ctx context.Context, txBytes []byte) (*suiclient.TransactionResponse, error)
}

// Wallet is the wallet connector. *wallet.Connector implements it.
type Wallet interface {
	Address() (types.Address, error)
	SignAndExecute(ctx context.Context, td *tx.TransactionData) (*suiclient.TransactionResponse, error)
}

// Journal records submitted transactions. *history.Journal implements it.
type Journal interface {
	Record(e history.Entry) error
}

// Contract locates the coin lock package and gas settings.
type Contract struct {
	Package    types.ObjectID
	Module     string
	LockType   string
	LockFn     string
	WithdrawFn string
	GasBudget  uint64
	GasPrice   uint64 // 0 = reference gas price
}

// StructType returns the fully qualified lock object type.
func (c Contract) StructType() string {
	return fmt.Sprintf("%s::%s::%s", c.Package, c.Module, c.LockType)
}

// ContractFromConfig resolves the contract settings of a validated config.
func ContractFromConfig(cfg *config.Config) (Contract, error) {
	if err := config.RequireContract(cfg); err != nil {
		return Contract{}, err
	}
	pkg, err := types.ParseAddress(cfg.Contract.Package)
	if err != nil {
		return Contract{}, fmt.Errorf("contract.package: %w", err)
	}
	return Contract{
		Package:    pkg,
		Module:     cfg.Contract.Module,
		LockType:   cfg.Contract.LockType,
		LockFn:     cfg.Contract.LockFn,
		WithdrawFn: cfg.Contract.WithdrawFn,
		GasBudget:  cfg.Gas.Budget,
		GasPrice:   cfg.Gas.Price,
	}, nil
}

// Service implements the coin lock operations for one account.
type Service struct {
	chain    Chain
	contract Contract
	journal  Journal
	now      func() time.Time
	loc      *time.Location

	mu     sync.RWMutex
	wallet Wallet
}

// Option configures a Service.
type Option func(*Service)

// WithJournal records every submitted transaction in j.
func WithJournal(j Journal) Option {
	return func(s *Service) { s.journal = j }
}

// WithClock overrides the time source used for maturity checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone dates are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// NewService creates a Service. w may be nil until a wallet is connected.
func NewService(chain Chain, w Wallet, contract Contract, opts ...Option) *Service {
	s := &Service{
		chain:    chain,
		contract: contract,
		wallet:   w,
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetWallet connects (or with nil, disconnects) a wallet.
func (s *Service) SetWallet(w Wallet) {
	s.mu.Lock()
	s.wallet = w
	s.mu.Unlock()
}

func (s *Service) connected() (Wallet, types.Address, error) {
	s.mu.RLock()
	w := s.wallet
	s.mu.RUnlock()
	if w == nil {
		return nil, types.Address{}, ErrWalletNotConnected
	}
	addr, err := w.Address()
	if err != nil {
		return nil, types.Address{}, fmt.Errorf("%w: %v", ErrWalletNotConnected, err)
	}
	return w, addr, nil
}

// Account is the connected address and its aggregate SUI balance.
type Account struct {
	Address types.Address
	Balance uint64 // MIST
}

// Account reads the connected account's balance.
func (s *Service) Account(ctx context.Context) (*Account, error) {
	_, addr, err := s.connected()
	if err != nil {
		return nil, err
	}
	bal, err := s.chain.GetBalance(ctx, addr, config.CoinType)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &Account{Address: addr, Balance: bal.TotalBalance}, nil
}
