package coinlock

import (
	"context"
	"errors"
	"fmt"

	"github.com/Klingon-tech/coinlock/internal/format"
	"github.com/Klingon-tech/coinlock/internal/history"
	"github.com/Klingon-tech/coinlock/pkg/tx"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

// Withdraw returns the funds of a matured lock to the account.
func (s *Service) Withdraw(ctx context.Context, lockID types.ObjectID, dryRun bool) (*Result, error) {
	w, addr, err := s.connected()
	if err != nil {
		return nil, err
	}
	td, pos, err := s.BuildWithdraw(ctx, addr, lockID)
	if err != nil {
		return nil, err
	}
	entry := history.Entry{
		Kind:       history.KindWithdraw,
		Amount:     pos.Balance,
		DurationMs: pos.DurationMs,
		LockID:     lockID.String(),
	}
	return s.submit(ctx, w, td, dryRun, entry)
}

// BuildWithdraw checks that the lock exists and has matured and builds the
// withdraw transaction.
func (s *Service) BuildWithdraw(ctx context.Context, sender types.Address, lockID types.ObjectID) (*tx.TransactionData, *Position, error) {
	obj, err := s.chain.GetObject(ctx, lockID)
	if err != nil {
		return nil, nil, fmt.Errorf("get lock: %w", err)
	}
	if obj == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrLockNotFound, lockID)
	}
	if obj.Type != s.contract.StructType() {
		return nil, nil, fmt.Errorf("%w: %s has type %s", ErrNotALock, lockID.Short(), obj.Type)
	}
	pos, err := parsePosition(obj)
	if err != nil {
		return nil, nil, err
	}
	pos.Range = format.FormatTimeRange(pos.CreatedMs, pos.DurationMs, s.now(), s.loc)
	if !pos.CanWithdraw() {
		return nil, nil, fmt.Errorf("%w: unlocks after %s", ErrLockNotMatured, pos.Range.End)
	}

	coins, err := s.coins(ctx, sender)
	if err != nil {
		return nil, nil, err
	}
	if len(coins) == 0 {
		return nil, nil, fmt.Errorf("%w: gas is needed to withdraw", ErrNoCoins)
	}
	gas := gasPrefix(coins, s.contract.GasBudget)
	if gas == nil {
		gas = coins
		if len(gas) > maxGasObjects {
			gas = gas[:maxGasObjects]
		}
	}
	price, err := s.gasPrice(ctx)
	if err != nil {
		return nil, nil, err
	}

	b := tx.NewBuilder()
	b.MoveCall(s.contract.Package, s.contract.Module, s.contract.WithdrawFn,
		b.Object(obj.Ref()),
		b.Shared(types.ClockRef),
	)
	td, err := b.Build(sender, tx.GasData{
		Payment: refs(gas),
		Owner:   sender,
		Price:   price,
		Budget:  s.contract.GasBudget,
	})
	if err != nil {
		return nil, nil, err
	}
	return td, &pos, nil
}

// IsUserError reports whether err is a validation error the user can fix
// without retrying, as opposed to a chain or wallet failure.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrWalletNotConnected, ErrAmountRequired, ErrInvalidAmount,
		ErrDurationRequired, ErrInsufficientBalance, ErrNoCoins,
		ErrLockNotMatured, ErrLockNotFound, ErrNotALock,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
