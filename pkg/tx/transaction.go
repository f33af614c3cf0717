// Package tx defines Sui programmable transactions and their BCS encoding.
package tx

import (
	"github.com/Klingon-tech/coinlock/pkg/bcs"
	"github.com/Klingon-tech/coinlock/pkg/types"
	"golang.org/x/crypto/blake2b"
)

// ArgumentKind selects what an Argument refers to.
type ArgumentKind uint8

// Argument kinds, in BCS variant order.
const (
	ArgGasCoin ArgumentKind = iota
	ArgInput
	ArgResult
	ArgNestedResult
)

// Argument references a value available to a command: the gas coin, a
// transaction input, or the result of an earlier command.
type Argument struct {
	Kind     ArgumentKind
	Index    uint16
	SubIndex uint16 // Only for ArgNestedResult.
}

// GasCoin returns the argument referring to the gas payment coin.
func GasCoin() Argument { return Argument{Kind: ArgGasCoin} }

// Input returns the argument referring to input i.
func Input(i uint16) Argument { return Argument{Kind: ArgInput, Index: i} }

// Result returns the argument referring to the whole result of command i.
func Result(i uint16) Argument { return Argument{Kind: ArgResult, Index: i} }

// NestedResult returns the argument referring to element j of command i's result.
func NestedResult(i, j uint16) Argument {
	return Argument{Kind: ArgNestedResult, Index: i, SubIndex: j}
}

// MarshalBCS implements bcs.Marshaler.
func (a Argument) MarshalBCS(e *bcs.Encoder) {
	e.WriteVariant(uint32(a.Kind))
	switch a.Kind {
	case ArgInput, ArgResult:
		e.WriteU16(a.Index)
	case ArgNestedResult:
		e.WriteU16(a.Index)
		e.WriteU16(a.SubIndex)
	}
}

// CallArg is a transaction input: either pure BCS bytes or an object.
type CallArg struct {
	Pure   []byte
	Owned  *types.ObjectRef
	Shared *types.SharedObjectRef
}

// MarshalBCS implements bcs.Marshaler.
func (c CallArg) MarshalBCS(e *bcs.Encoder) {
	switch {
	case c.Owned != nil:
		e.WriteVariant(1) // Object
		e.WriteVariant(0) // ImmOrOwnedObject
		writeObjectRef(e, *c.Owned)
	case c.Shared != nil:
		e.WriteVariant(1) // Object
		e.WriteVariant(1) // SharedObject
		e.WriteFixed(c.Shared.ObjectID[:])
		e.WriteU64(c.Shared.InitialSharedVersion)
		e.WriteBool(c.Shared.Mutable)
	default:
		e.WriteVariant(0) // Pure
		e.WriteBytes(c.Pure)
	}
}

// CommandKind is the BCS variant index of a command.
type CommandKind uint8

// Command kinds used by the client, in BCS variant order.
const (
	CmdMoveCall   CommandKind = 0
	CmdSplitCoins CommandKind = 2
	CmdMergeCoins CommandKind = 3
)

// MoveCall invokes a non-generic Move entry function.
type MoveCall struct {
	Package   types.ObjectID
	Module    string
	Function  string
	Arguments []Argument
}

// Command is one step of a programmable transaction.
type Command struct {
	Kind     CommandKind
	MoveCall *MoveCall
	// Coin is the split source or merge destination.
	Coin Argument
	// Args holds split amounts or merge sources.
	Args []Argument
}

// MarshalBCS implements bcs.Marshaler.
func (c Command) MarshalBCS(e *bcs.Encoder) {
	e.WriteVariant(uint32(c.Kind))
	switch c.Kind {
	case CmdMoveCall:
		mc := c.MoveCall
		e.WriteFixed(mc.Package[:])
		e.WriteString(mc.Module)
		e.WriteString(mc.Function)
		e.WriteLen(0) // type arguments
		writeArguments(e, mc.Arguments)
	case CmdSplitCoins, CmdMergeCoins:
		c.Coin.MarshalBCS(e)
		writeArguments(e, c.Args)
	}
}

// ProgrammableTransaction is an ordered list of commands over shared inputs.
type ProgrammableTransaction struct {
	Inputs   []CallArg
	Commands []Command
}

// MarshalBCS implements bcs.Marshaler.
func (pt ProgrammableTransaction) MarshalBCS(e *bcs.Encoder) {
	e.WriteLen(len(pt.Inputs))
	for _, in := range pt.Inputs {
		in.MarshalBCS(e)
	}
	e.WriteLen(len(pt.Commands))
	for _, c := range pt.Commands {
		c.MarshalBCS(e)
	}
}

// GasData names the coins paying for execution and the price/budget in MIST.
type GasData struct {
	Payment []types.ObjectRef
	Owner   types.Address
	Price   uint64
	Budget  uint64
}

// MarshalBCS implements bcs.Marshaler.
func (g GasData) MarshalBCS(e *bcs.Encoder) {
	e.WriteLen(len(g.Payment))
	for _, ref := range g.Payment {
		writeObjectRef(e, ref)
	}
	e.WriteFixed(g.Owner[:])
	e.WriteU64(g.Price)
	e.WriteU64(g.Budget)
}

// TransactionData is the V1 transaction payload that gets signed.
type TransactionData struct {
	Kind   ProgrammableTransaction
	Sender types.Address
	Gas    GasData
}

// MarshalBCS implements bcs.Marshaler.
func (td *TransactionData) MarshalBCS(e *bcs.Encoder) {
	e.WriteVariant(0) // V1
	e.WriteVariant(0) // TransactionKind::ProgrammableTransaction
	td.Kind.MarshalBCS(e)
	e.WriteFixed(td.Sender[:])
	td.Gas.MarshalBCS(e)
	e.WriteVariant(0) // TransactionExpiration::None
}

// Bytes returns the BCS encoding of the transaction data.
func (td *TransactionData) Bytes() []byte {
	return bcs.Marshal(td)
}

// digestSalt is the type-name prefix hashed with the data to form the digest.
const digestSalt = "TransactionData::"

// Digest returns the transaction digest the network will assign.
func (td *TransactionData) Digest() types.Digest {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(digestSalt))
	h.Write(td.Bytes())
	var d types.Digest
	copy(d[:], h.Sum(nil))
	return d
}

func writeObjectRef(e *bcs.Encoder, ref types.ObjectRef) {
	e.WriteFixed(ref.ObjectID[:])
	e.WriteU64(ref.Version)
	e.WriteBytes(ref.Digest[:])
}

func writeArguments(e *bcs.Encoder, args []Argument) {
	e.WriteLen(len(args))
	for _, a := range args {
		a.MarshalBCS(e)
	}
}
