// Package format renders coin amounts and lock time ranges for display.
package format

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/Klingon-tech/coinlock/config"
	"github.com/shopspring/decimal"
)

// Amount parsing errors.
var (
	ErrEmptyAmount   = errors.New("amount is empty")
	ErrInvalidAmount = errors.New("invalid amount")
)

var maxMist = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

func mistDecimal(mist uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(mist), -config.Decimals)
}

// FormatBalance renders a MIST amount in SUI with trailing zeros trimmed:
// 1000000000 → "1", 1500000000 → "1.5".
func FormatBalance(mist uint64) string {
	return mistDecimal(mist).String()
}

// FormatBalanceFixed renders a MIST amount in SUI with exactly places
// decimals, rounding half up.
func FormatBalanceFixed(mist uint64, places int32) string {
	return mistDecimal(mist).StringFixed(places)
}

// ParseAmount converts a decimal SUI string into MIST. It rejects empty,
// negative and zero amounts, more than 9 decimals, and values beyond u64.
func ParseAmount(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyAmount
	}
	if strings.ContainsAny(s, "eE") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() || d.IsZero() {
		return 0, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	mist := d.Shift(config.Decimals)
	if !mist.IsInteger() {
		return 0, fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, config.Decimals)
	}
	if mist.GreaterThan(maxMist) {
		return 0, fmt.Errorf("%w: too large", ErrInvalidAmount)
	}
	return mist.BigInt().Uint64(), nil
}
