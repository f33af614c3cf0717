package tx

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/coinlock/pkg/types"
)

// Validation errors.
var (
	ErrNoCommands       = errors.New("transaction has no commands")
	ErrNoGasPayment     = errors.New("transaction has no gas payment")
	ErrZeroGasBudget    = errors.New("gas budget is zero")
	ErrZeroGasPrice     = errors.New("gas price is zero")
	ErrBadArgument      = errors.New("argument out of range")
	ErrGasCoinAsInput   = errors.New("gas payment coin also used as object input")
	ErrEmptyMergeSource = errors.New("merge has no sources")
	ErrTooManyInputs    = errors.New("too many inputs")
)

// MaxInputs bounds the number of inputs of a single transaction.
const MaxInputs = 2048

// Validate checks structural rules before the transaction is signed.
// It does not check object existence or ownership; the network does that.
func (td *TransactionData) Validate() error {
	pt := td.Kind
	if len(pt.Commands) == 0 {
		return ErrNoCommands
	}
	if len(pt.Inputs) > MaxInputs {
		return fmt.Errorf("%w: %d, max %d", ErrTooManyInputs, len(pt.Inputs), MaxInputs)
	}
	if len(td.Gas.Payment) == 0 {
		return ErrNoGasPayment
	}
	if td.Gas.Budget == 0 {
		return ErrZeroGasBudget
	}
	if td.Gas.Price == 0 {
		return ErrZeroGasPrice
	}

	gas := make(map[types.ObjectID]struct{}, len(td.Gas.Payment))
	for _, ref := range td.Gas.Payment {
		gas[ref.ObjectID] = struct{}{}
	}
	for i, in := range pt.Inputs {
		if in.Owned == nil {
			continue
		}
		if _, ok := gas[in.Owned.ObjectID]; ok {
			return fmt.Errorf("input %d: %w", i, ErrGasCoinAsInput)
		}
	}

	for i, c := range pt.Commands {
		var args []Argument
		switch c.Kind {
		case CmdMoveCall:
			if c.MoveCall == nil {
				return fmt.Errorf("command %d: missing move call", i)
			}
			args = c.MoveCall.Arguments
		case CmdMergeCoins:
			if len(c.Args) == 0 {
				return fmt.Errorf("command %d: %w", i, ErrEmptyMergeSource)
			}
			args = append([]Argument{c.Coin}, c.Args...)
		case CmdSplitCoins:
			args = append([]Argument{c.Coin}, c.Args...)
		default:
			return fmt.Errorf("command %d: unsupported kind %d", i, c.Kind)
		}
		for _, a := range args {
			if err := checkArgument(a, len(pt.Inputs), i); err != nil {
				return fmt.Errorf("command %d: %w", i, err)
			}
		}
	}
	return nil
}

// checkArgument ensures inputs exist and results refer to earlier commands.
func checkArgument(a Argument, inputs, cmd int) error {
	switch a.Kind {
	case ArgGasCoin:
		return nil
	case ArgInput:
		if int(a.Index) >= inputs {
			return fmt.Errorf("%w: input %d of %d", ErrBadArgument, a.Index, inputs)
		}
	case ArgResult, ArgNestedResult:
		if int(a.Index) >= cmd {
			return fmt.Errorf("%w: result %d used by command %d", ErrBadArgument, a.Index, cmd)
		}
	default:
		return fmt.Errorf("%w: kind %d", ErrBadArgument, a.Kind)
	}
	return nil
}
