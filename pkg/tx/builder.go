package tx

import (
	"github.com/Klingon-tech/coinlock/pkg/bcs"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

// Builder constructs a programmable transaction incrementally.
// Object inputs are deduplicated by ID so the same coin can be referenced by
// several commands.
type Builder struct {
	pt      ProgrammableTransaction
	objects map[types.ObjectID]uint16
}

// NewBuilder creates a new transaction builder.
func NewBuilder() *Builder {
	return &Builder{objects: make(map[types.ObjectID]uint16)}
}

func (b *Builder) addInput(arg CallArg) Argument {
	idx := uint16(len(b.pt.Inputs))
	b.pt.Inputs = append(b.pt.Inputs, arg)
	return Input(idx)
}

// Pure adds a pure input holding already BCS-encoded bytes.
func (b *Builder) Pure(value []byte) Argument {
	return b.addInput(CallArg{Pure: value})
}

// PureU64 adds a u64 pure input.
func (b *Builder) PureU64(v uint64) Argument {
	return b.Pure(bcs.U64(v))
}

// PureOptionString adds an Option<String> pure input. A nil note is None.
func (b *Builder) PureOptionString(s *string) Argument {
	return b.Pure(bcs.OptionString(s))
}

// Object adds an owned object input, reusing an existing input for the same ID.
func (b *Builder) Object(ref types.ObjectRef) Argument {
	if idx, ok := b.objects[ref.ObjectID]; ok {
		return Input(idx)
	}
	r := ref
	arg := b.addInput(CallArg{Owned: &r})
	b.objects[ref.ObjectID] = arg.Index
	return arg
}

// Shared adds a shared object input, reusing an existing input for the same ID.
func (b *Builder) Shared(ref types.SharedObjectRef) Argument {
	if idx, ok := b.objects[ref.ObjectID]; ok {
		return Input(idx)
	}
	r := ref
	arg := b.addInput(CallArg{Shared: &r})
	b.objects[ref.ObjectID] = arg.Index
	return arg
}

func (b *Builder) addCommand(c Command) uint16 {
	idx := uint16(len(b.pt.Commands))
	b.pt.Commands = append(b.pt.Commands, c)
	return idx
}

// SplitCoins splits the given amounts off coin and returns one argument per
// new coin.
func (b *Builder) SplitCoins(coin Argument, amounts ...Argument) []Argument {
	idx := b.addCommand(Command{Kind: CmdSplitCoins, Coin: coin, Args: amounts})
	out := make([]Argument, len(amounts))
	for i := range amounts {
		out[i] = NestedResult(idx, uint16(i))
	}
	return out
}

// MergeCoins merges sources into dst.
func (b *Builder) MergeCoins(dst Argument, sources ...Argument) {
	b.addCommand(Command{Kind: CmdMergeCoins, Coin: dst, Args: sources})
}

// MoveCall appends a call to pkg::module::function and returns its result.
func (b *Builder) MoveCall(pkg types.ObjectID, module, function string, args ...Argument) Argument {
	idx := b.addCommand(Command{
		Kind: CmdMoveCall,
		MoveCall: &MoveCall{
			Package:   pkg,
			Module:    module,
			Function:  function,
			Arguments: args,
		},
	})
	return Result(idx)
}

// Build attaches sender and gas data and validates the result.
func (b *Builder) Build(sender types.Address, gas GasData) (*TransactionData, error) {
	td := &TransactionData{
		Kind:   b.pt,
		Sender: sender,
		Gas:    gas,
	}
	if err := td.Validate(); err != nil {
		return nil, err
	}
	return td, nil
}
