package suiclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Klingon-tech/coinlock/pkg/types"
	"github.com/tidwall/gjson"
)

// PageSize is the page size requested from paginated endpoints.
const PageSize = 50

// maxPages bounds pagination loops against a misbehaving node.
const maxPages = 1000

// GetBalance returns the aggregate balance of coinType owned by owner.
func (c *Client) GetBalance(ctx context.Context, owner types.Address, coinType string) (*Balance, error) {
	raw, err := c.CallRaw(ctx, "suix_getBalance", owner.String(), coinType)
	if err != nil {
		return nil, err
	}
	r := gjson.ParseBytes(raw)
	total, err := parseUint(r.Get("totalBalance"), "totalBalance")
	if err != nil {
		return nil, fmt.Errorf("suix_getBalance: %w", err)
	}
	return &Balance{
		CoinType:        r.Get("coinType").String(),
		CoinObjectCount: int(r.Get("coinObjectCount").Int()),
		TotalBalance:    total,
	}, nil
}

// GetCoins returns every coin of coinType owned by owner, following
// pagination, in the order the node returns them.
func (c *Client) GetCoins(ctx context.Context, owner types.Address, coinType string) ([]Coin, error) {
	var coins []Coin
	var cursor interface{}
	for page := 0; page < maxPages; page++ {
		raw, err := c.CallRaw(ctx, "suix_getCoins", owner.String(), coinType, cursor, PageSize)
		if err != nil {
			return nil, err
		}
		r := gjson.ParseBytes(raw)
		for _, item := range r.Get("data").Array() {
			coin, err := parseCoin(item)
			if err != nil {
				return nil, fmt.Errorf("suix_getCoins: %w", err)
			}
			coins = append(coins, coin)
		}
		next := r.Get("nextCursor")
		if !r.Get("hasNextPage").Bool() || next.Type == gjson.Null || !next.Exists() {
			return coins, nil
		}
		cursor = next.String()
	}
	return nil, fmt.Errorf("suix_getCoins: more than %d pages", maxPages)
}

// GetOwnedObjects returns every object of the given struct type owned by
// owner, with content, following pagination.
func (c *Client) GetOwnedObjects(ctx context.Context, owner types.Address, structType string) ([]*Object, error) {
	query := map[string]interface{}{
		"filter": map[string]interface{}{
			"MatchAll": []interface{}{
				map[string]string{"StructType": structType},
			},
		},
		"options": map[string]bool{
			"showType":    true,
			"showContent": true,
		},
	}

	var objects []*Object
	var cursor interface{}
	for page := 0; page < maxPages; page++ {
		raw, err := c.CallRaw(ctx, "suix_getOwnedObjects", owner.String(), query, cursor, PageSize)
		if err != nil {
			return nil, err
		}
		r := gjson.ParseBytes(raw)
		for _, item := range r.Get("data").Array() {
			data := item.Get("data")
			if !data.Exists() {
				// Entries with only an error (e.g. deleted) are skipped.
				continue
			}
			obj, err := parseObjectData(data)
			if err != nil {
				return nil, fmt.Errorf("suix_getOwnedObjects: %w", err)
			}
			objects = append(objects, obj)
		}
		next := r.Get("nextCursor")
		if !r.Get("hasNextPage").Bool() || next.Type == gjson.Null || !next.Exists() {
			return objects, nil
		}
		cursor = next.String()
	}
	return nil, fmt.Errorf("suix_getOwnedObjects: more than %d pages", maxPages)
}

// GetObject fetches a single object with content. Returns (nil, nil) if the
// object does not exist or was deleted.
func (c *Client) GetObject(ctx context.Context, id types.ObjectID) (*Object, error) {
	options := map[string]bool{"showType": true, "showContent": true}
	raw, err := c.CallRaw(ctx, "sui_getObject", id.String(), options)
	if err != nil {
		return nil, err
	}
	return objectOrMissing(gjson.ParseBytes(raw), "sui_getObject")
}

// GetDynamicFieldObject fetches the dynamic field of parent with the given
// name. Returns (nil, nil) if the field does not exist.
func (c *Client) GetDynamicFieldObject(ctx context.Context, parent types.ObjectID, name DynamicFieldName) (*Object, error) {
	raw, err := c.CallRaw(ctx, "suix_getDynamicFieldObject", parent.String(), name)
	if err != nil {
		return nil, err
	}
	return objectOrMissing(gjson.ParseBytes(raw), "suix_getDynamicFieldObject")
}

// objectOrMissing handles the {data} | {error} shape of object responses.
func objectOrMissing(r gjson.Result, method string) (*Object, error) {
	if data := r.Get("data"); data.Exists() && data.Type != gjson.Null {
		obj, err := parseObjectData(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		return obj, nil
	}
	if e := r.Get("error"); e.Exists() {
		code := e.Get("code").String()
		if isMissingCode(code) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: object error %s", method, e.Raw)
	}
	return nil, nil
}

func isMissingCode(code string) bool {
	switch code {
	case "notExists", "deleted", "dynamicFieldNotFound":
		return true
	}
	return strings.HasSuffix(code, "NotFound")
}

// GetReferenceGasPrice returns the current reference gas price in MIST.
func (c *Client) GetReferenceGasPrice(ctx context.Context) (uint64, error) {
	raw, err := c.CallRaw(ctx, "suix_getReferenceGasPrice")
	if err != nil {
		return 0, err
	}
	price, err := parseUint(gjson.ParseBytes(raw), "gas price")
	if err != nil {
		return 0, fmt.Errorf("suix_getReferenceGasPrice: %w", err)
	}
	return price, nil
}

// ExecuteTransactionBlock submits signed BCS transaction bytes and waits for
// local execution. A returned response may still carry a failure status.
func (c *Client) ExecuteTransactionBlock(ctx context.Context, txBytes []byte, signatures []string) (*TransactionResponse, error) {
	options := map[string]bool{"showEffects": true}
	raw, err := c.CallRaw(ctx, "sui_executeTransactionBlock",
		base64.StdEncoding.EncodeToString(txBytes), signatures, options, "WaitForLocalExecution")
	if err != nil {
		return nil, err
	}
	resp, err := parseTransactionResponse(gjson.ParseBytes(raw))
	if err != nil {
		return nil, fmt.Errorf("sui_executeTransactionBlock: %w", err)
	}
	return resp, nil
}

// DryRunTransactionBlock simulates unsigned BCS transaction bytes.
func (c *Client) DryRunTransactionBlock(ctx context.Context, txBytes []byte) (*TransactionResponse, error) {
	raw, err := c.CallRaw(ctx, "sui_dryRunTransactionBlock", base64.StdEncoding.EncodeToString(txBytes))
	if err != nil {
		return nil, err
	}
	resp, err := parseTransactionResponse(gjson.ParseBytes(raw))
	if err != nil {
		return nil, fmt.Errorf("sui_dryRunTransactionBlock: %w", err)
	}
	return resp, nil
}
