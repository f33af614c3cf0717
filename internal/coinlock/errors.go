package coinlock

import (
	"errors"

	"github.com/Klingon-tech/coinlock/internal/wallet"
)

// Errors surfaced to users as notifications.
var (
	ErrWalletNotConnected = errors.New("wallet not connected")
	ErrAmountRequired     = errors.New("amount is required")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrDurationRequired   = errors.New("duration is required")
	ErrLockNotMatured     = errors.New("lock has not matured yet")
	ErrLockNotFound       = errors.New("lock not found")
	ErrNotALock           = errors.New("object is not a coin lock")

	ErrInsufficientBalance = wallet.ErrInsufficientBalance
	ErrNoCoins             = wallet.ErrNoCoins
)
