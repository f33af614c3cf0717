package wallet

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/coinlock/pkg/types"
)

// Coin aggregation errors.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoCoins             = errors.New("no SUI coins found for the account")
)

// Coin is a spendable coin object owned by the wallet.
type Coin struct {
	Ref     types.ObjectRef
	Balance uint64
}

// Aggregation is the result of AggregateCoins.
type Aggregation struct {
	// Primary is the coin the others are merged into and the lock amount
	// is split from.
	Primary Coin
	// Merged are the remaining selected coins, merged into Primary.
	Merged []Coin
	// Spare are the unselected coins, available to pay for gas.
	Spare []Coin
	// Total is the sum of Primary and Merged.
	Total uint64
	// Amount is the exact amount to split off for the lock.
	Amount uint64
}

// Selected returns Primary followed by Merged.
func (a *Aggregation) Selected() []Coin {
	out := make([]Coin, 0, 1+len(a.Merged))
	out = append(out, a.Primary)
	return append(out, a.Merged...)
}

// NeedsMerge reports whether more than one coin was selected.
func (a *Aggregation) NeedsMerge() bool {
	return len(a.Merged) > 0
}

// AggregateCoins selects the shortest prefix of coins, in the given order,
// whose balances sum to at least amount. Coin order is the order the chain
// returned them in and is never changed.
func AggregateCoins(coins []Coin, amount uint64) (*Aggregation, error) {
	if len(coins) == 0 {
		return nil, ErrNoCoins
	}
	if amount == 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	total := totalBalance(coins)
	if total < amount {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, total, amount)
	}

	var sum uint64
	n := 0
	for n < len(coins) && sum < amount {
		sum += coins[n].Balance
		n++
	}

	agg := &Aggregation{
		Primary: coins[0],
		Total:   sum,
		Amount:  amount,
	}
	if n > 1 {
		agg.Merged = append([]Coin(nil), coins[1:n]...)
	}
	if n < len(coins) {
		agg.Spare = append([]Coin(nil), coins[n:]...)
	}
	return agg, nil
}

// totalBalance sums balances, saturating at the u64 maximum.
func totalBalance(coins []Coin) uint64 {
	var total uint64
	for _, c := range coins {
		if total+c.Balance < total {
			return ^uint64(0)
		}
		total += c.Balance
	}
	return total
}
