package suiclient

import (
	"fmt"
	"strconv"

	"github.com/Klingon-tech/coinlock/pkg/types"
	"github.com/tidwall/gjson"
)

// Balance is the aggregate balance of one coin type for an owner.
type Balance struct {
	CoinType        string
	CoinObjectCount int
	TotalBalance    uint64
}

// Coin is a single owned coin object.
type Coin struct {
	CoinType string
	ObjectID types.ObjectID
	Version  uint64
	Digest   types.Digest
	Balance  uint64
}

// Ref returns the object reference used to pass the coin as an input.
func (c Coin) Ref() types.ObjectRef {
	return types.ObjectRef{ObjectID: c.ObjectID, Version: c.Version, Digest: c.Digest}
}

// Object is a Move object as returned with showContent.
type Object struct {
	ObjectID types.ObjectID
	Version  uint64
	Digest   types.Digest
	Type     string
	// content is the raw "content" JSON of the object.
	content string
}

// NewObject builds an Object from its reference, type and the raw JSON of
// its "content" member.
func NewObject(ref types.ObjectRef, typ, content string) *Object {
	return &Object{
		ObjectID: ref.ObjectID,
		Version:  ref.Version,
		Digest:   ref.Digest,
		Type:     typ,
		content:  content,
	}
}

// Ref returns the object reference for passing an owned object as input.
func (o *Object) Ref() types.ObjectRef {
	return types.ObjectRef{ObjectID: o.ObjectID, Version: o.Version, Digest: o.Digest}
}

// Field returns a Move struct field by gjson path under content.fields,
// e.g. "balance" or "value".
func (o *Object) Field(path string) gjson.Result {
	return gjson.Get(o.content, "fields."+path)
}

// FieldUint parses a numeric field. Move u64 values arrive as JSON strings.
func (o *Object) FieldUint(path string) (uint64, error) {
	r := o.Field(path)
	if !r.Exists() {
		return 0, fmt.Errorf("object %s: missing field %q", o.ObjectID.Short(), path)
	}
	v, err := strconv.ParseUint(r.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("object %s: field %q: %w", o.ObjectID.Short(), path, err)
	}
	return v, nil
}

// GasCost is the gas summary of executed effects, in MIST.
type GasCost struct {
	ComputationCost uint64
	StorageCost     uint64
	StorageRebate   uint64
}

// Net returns computation + storage - rebate, floored at zero.
func (g GasCost) Net() uint64 {
	total := g.ComputationCost + g.StorageCost
	if g.StorageRebate >= total {
		return 0
	}
	return total - g.StorageRebate
}

// Execution status values reported in transaction effects.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// TransactionResponse is the subset of an execution or dry-run response
// the client cares about.
type TransactionResponse struct {
	Digest  string
	Status  string
	Error   string
	GasUsed GasCost
}

// Success reports whether the effects status is "success".
func (r *TransactionResponse) Success() bool {
	return r.Status == StatusSuccess
}

// DynamicFieldName identifies a dynamic field by Move type and JSON value.
type DynamicFieldName struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// ── parsing ─────────────────────────────────────────────────────────────

func parseUint(r gjson.Result, what string) (uint64, error) {
	if !r.Exists() {
		return 0, fmt.Errorf("missing %s", what)
	}
	v, err := strconv.ParseUint(r.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, r.String(), err)
	}
	return v, nil
}

func parseCoin(r gjson.Result) (Coin, error) {
	id, err := types.ParseAddress(r.Get("coinObjectId").String())
	if err != nil {
		return Coin{}, fmt.Errorf("coin id: %w", err)
	}
	version, err := parseUint(r.Get("version"), "coin version")
	if err != nil {
		return Coin{}, err
	}
	digest, err := types.ParseDigest(r.Get("digest").String())
	if err != nil {
		return Coin{}, fmt.Errorf("coin %s: %w", id.Short(), err)
	}
	balance, err := parseUint(r.Get("balance"), "coin balance")
	if err != nil {
		return Coin{}, err
	}
	return Coin{
		CoinType: r.Get("coinType").String(),
		ObjectID: id,
		Version:  version,
		Digest:   digest,
		Balance:  balance,
	}, nil
}

// parseObjectData parses the "data" member of an object response.
func parseObjectData(d gjson.Result) (*Object, error) {
	id, err := types.ParseAddress(d.Get("objectId").String())
	if err != nil {
		return nil, fmt.Errorf("object id: %w", err)
	}
	version, err := parseUint(d.Get("version"), "object version")
	if err != nil {
		return nil, err
	}
	digest, err := types.ParseDigest(d.Get("digest").String())
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", id.Short(), err)
	}
	content := d.Get("content")
	typ := d.Get("type").String()
	if typ == "" {
		typ = content.Get("type").String()
	}
	return &Object{
		ObjectID: id,
		Version:  version,
		Digest:   digest,
		Type:     typ,
		content:  content.Raw,
	}, nil
}

func parseTransactionResponse(r gjson.Result) (*TransactionResponse, error) {
	effects := r.Get("effects")
	if !effects.Exists() {
		return nil, fmt.Errorf("response has no effects")
	}
	digest := r.Get("digest").String()
	if digest == "" {
		digest = effects.Get("transactionDigest").String()
	}
	gas := effects.Get("gasUsed")
	return &TransactionResponse{
		Digest: digest,
		Status: effects.Get("status.status").String(),
		Error:  effects.Get("status.error").String(),
		GasUsed: GasCost{
			ComputationCost: gas.Get("computationCost").Uint(),
			StorageCost:     gas.Get("storageCost").Uint(),
			StorageRebate:   gas.Get("storageRebate").Uint(),
		},
	}, nil
}
