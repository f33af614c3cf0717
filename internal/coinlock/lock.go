package coinlock

import (
	"context"
	"fmt"

	"github.com/Klingon-tech/coinlock/config"
	"github.com/Klingon-tech/coinlock/internal/format"
	"github.com/Klingon-tech/coinlock/internal/history"
	"github.com/Klingon-tech/coinlock/internal/log"
	"github.com/Klingon-tech/coinlock/internal/wallet"
	"github.com/Klingon-tech/coinlock/pkg/tx"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

// maxGasObjects is the most coins a transaction may pay gas with.
const maxGasObjects = 256

// LockRequest describes a lock to create.
type LockRequest struct {
	Amount     uint64 // MIST
	DurationMs uint64
	Note       string // empty = no note
	DryRun     bool
}

// Lock locks req.Amount of SUI for req.DurationMs. The amount must be
// strictly below the account balance so something is left for gas.
func (s *Service) Lock(ctx context.Context, req LockRequest) (*Result, error) {
	w, addr, err := s.connected()
	if err != nil {
		return nil, err
	}
	if req.Amount == 0 {
		return nil, ErrAmountRequired
	}
	if req.DurationMs == 0 {
		return nil, ErrDurationRequired
	}

	bal, err := s.chain.GetBalance(ctx, addr, config.CoinType)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	if req.Amount >= bal.TotalBalance {
		return nil, fmt.Errorf("%w: balance is %s SUI", ErrInsufficientBalance, format.FormatBalance(bal.TotalBalance))
	}

	td, err := s.BuildLock(ctx, addr, req)
	if err != nil {
		return nil, err
	}

	entry := history.Entry{
		Kind:       history.KindLock,
		Amount:     req.Amount,
		DurationMs: req.DurationMs,
		Note:       req.Note,
	}
	return s.submit(ctx, w, td, req.DryRun, entry)
}

// BuildLock selects coins for req and builds the lock transaction for
// sender. It reads coins and the gas price from the chain but submits
// nothing. When the selection also pays for gas, no MergeCoins command is
// emitted: the node smashes the gas payment into its first coin before
// execution, so splitting from GasCoin is the same merge then split.
func (s *Service) BuildLock(ctx context.Context, sender types.Address, req LockRequest) (*tx.TransactionData, error) {
	coins, err := s.coins(ctx, sender)
	if err != nil {
		return nil, err
	}
	agg, err := wallet.AggregateCoins(coins, req.Amount)
	if err != nil {
		return nil, err
	}
	price, err := s.gasPrice(ctx)
	if err != nil {
		return nil, err
	}
	budget := s.contract.GasBudget

	b := tx.NewBuilder()
	var lockCoin tx.Argument
	var payment []types.ObjectRef

	if gas := gasPrefix(agg.Spare, budget); gas != nil {
		// Unselected coins pay for gas; the lock amount comes out of
		// the merged selection.
		primary := b.Object(agg.Primary.Ref)
		if agg.NeedsMerge() {
			b.MergeCoins(primary, objectArgs(b, agg.Merged)...)
		}
		lockCoin = b.SplitCoins(primary, b.PureU64(req.Amount))[0]
		payment = refs(gas)
	} else {
		// Every coin becomes gas; the node merges them into the first
		// and the lock amount is split from the gas coin.
		if len(coins) > maxGasObjects {
			return nil, fmt.Errorf("%w: %d coins, merge some first", ErrInsufficientBalance, len(coins))
		}
		if total := totalOf(coins); total-req.Amount < budget {
			return nil, fmt.Errorf("%w: locking %s SUI leaves %s SUI for a gas budget of %s SUI",
				ErrInsufficientBalance, format.FormatBalance(req.Amount),
				format.FormatBalance(total-req.Amount), format.FormatBalance(budget))
		}
		lockCoin = b.SplitCoins(tx.GasCoin(), b.PureU64(req.Amount))[0]
		payment = refs(coins)
	}

	var note *string
	if req.Note != "" {
		n := req.Note
		note = &n
	}
	b.MoveCall(s.contract.Package, s.contract.Module, s.contract.LockFn,
		lockCoin,
		b.PureU64(req.DurationMs),
		b.PureOptionString(note),
		b.Shared(types.ClockRef),
	)

	log.Lock.Debug().
		Int("coins", len(agg.Selected())).
		Int("gas_coins", len(payment)).
		Uint64("amount", req.Amount).
		Msg("built lock transaction")

	return b.Build(sender, tx.GasData{
		Payment: payment,
		Owner:   sender,
		Price:   price,
		Budget:  budget,
	})
}

// coins returns the owner's SUI coins in node order.
func (s *Service) coins(ctx context.Context, owner types.Address) ([]wallet.Coin, error) {
	list, err := s.chain.GetCoins(ctx, owner, config.CoinType)
	if err != nil {
		return nil, fmt.Errorf("get coins: %w", err)
	}
	coins := make([]wallet.Coin, len(list))
	for i, c := range list {
		coins[i] = wallet.Coin{Ref: c.Ref(), Balance: c.Balance}
	}
	return coins, nil
}

func (s *Service) gasPrice(ctx context.Context) (uint64, error) {
	if s.contract.GasPrice > 0 {
		return s.contract.GasPrice, nil
	}
	price, err := s.chain.GetReferenceGasPrice(ctx)
	if err != nil {
		return 0, fmt.Errorf("get gas price: %w", err)
	}
	return price, nil
}

// gasPrefix returns the shortest prefix of coins covering budget, or nil
// if they cannot.
func gasPrefix(coins []wallet.Coin, budget uint64) []wallet.Coin {
	var sum uint64
	for i, c := range coins {
		if i == maxGasObjects {
			return nil
		}
		sum += c.Balance
		if sum >= budget {
			return coins[:i+1]
		}
	}
	return nil
}

func objectArgs(b *tx.Builder, coins []wallet.Coin) []tx.Argument {
	args := make([]tx.Argument, len(coins))
	for i, c := range coins {
		args[i] = b.Object(c.Ref)
	}
	return args
}

func refs(coins []wallet.Coin) []types.ObjectRef {
	out := make([]types.ObjectRef, len(coins))
	for i, c := range coins {
		out[i] = c.Ref
	}
	return out
}

func totalOf(coins []wallet.Coin) uint64 {
	var total uint64
	for _, c := range coins {
		total += c.Balance
	}
	return total
}
