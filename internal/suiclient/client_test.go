package suiclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	klog "github.com/Klingon-tech/coinlock/internal/log"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

// handlerFunc answers one JSON-RPC method. Returning a non-nil *rpcError
// sends an error response instead of the result.
type handlerFunc func(params []json.RawMessage) (interface{}, *rpcError)

type fakeNode struct {
	t        *testing.T
	mu       sync.Mutex
	handlers map[string]handlerFunc
	calls    map[string]int
}

func newFakeNode(t *testing.T) (*fakeNode, *Client) {
	t.Helper()
	klog.Init("error", false, "")
	n := &fakeNode{t: t, handlers: map[string]handlerFunc{}, calls: map[string]int{}}
	srv := httptest.NewServer(n)
	t.Cleanup(srv.Close)
	return n, New(srv.URL, 5*time.Second)
}

func (n *fakeNode) handle(method string, h handlerFunc) {
	n.handlers[method] = h
}

func (n *fakeNode) count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
		ID     uint64            `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	n.mu.Lock()
	n.calls[req.Method]++
	h := n.handlers[req.Method]
	n.mu.Unlock()

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if h == nil {
		resp["error"] = rpcError{Code: -32601, Message: "method not found"}
	} else if result, rerr := h(req.Params); rerr != nil {
		resp["error"] = rerr
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func testAddr(b byte) types.Address {
	var a types.Address
	a[31] = b
	return a
}

func testDigest(b byte) types.Digest {
	var d types.Digest
	d[0] = b
	d[31] = b
	return d
}

func coinJSON(id byte, version, balance uint64) map[string]interface{} {
	return map[string]interface{}{
		"coinType":     "0x2::sui::SUI",
		"coinObjectId": testAddr(id).String(),
		"version":      fmt.Sprint(version),
		"digest":       testDigest(id).String(),
		"balance":      fmt.Sprint(balance),
	}
}

func lockJSON(id byte, balance, duration, created uint64) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			"objectId": testAddr(id).String(),
			"version":  "7",
			"digest":   testDigest(id).String(),
			"type":     "0x1::coin_lock::CoinLock",
			"content": map[string]interface{}{
				"dataType": "moveObject",
				"type":     "0x1::coin_lock::CoinLock",
				"fields": map[string]interface{}{
					"balance":      fmt.Sprint(balance),
					"duration":     fmt.Sprint(duration),
					"time_created": fmt.Sprint(created),
				},
			},
		},
	}
}

func TestClient_GetBalance(t *testing.T) {
	node, c := newFakeNode(t)
	node.handle("suix_getBalance", func(p []json.RawMessage) (interface{}, *rpcError) {
		var owner, coinType string
		json.Unmarshal(p[0], &owner)
		json.Unmarshal(p[1], &coinType)
		if owner != testAddr(9).String() || coinType != "0x2::sui::SUI" {
			return nil, &rpcError{Code: -32602, Message: "bad params"}
		}
		return map[string]interface{}{
			"coinType":        coinType,
			"coinObjectCount": 3,
			"totalBalance":    "2500000000",
		}, nil
	})

	bal, err := c.GetBalance(context.Background(), testAddr(9), "0x2::sui::SUI")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if bal.TotalBalance != 2_500_000_000 || bal.CoinObjectCount != 3 {
		t.Errorf("balance = %+v", bal)
	}
}

func TestClient_RPCError(t *testing.T) {
	node, c := newFakeNode(t)
	node.handle("suix_getBalance", func([]json.RawMessage) (interface{}, *rpcError) {
		return nil, &rpcError{Code: -32000, Message: "boom"}
	})

	_, err := c.GetBalance(context.Background(), testAddr(1), "0x2::sui::SUI")
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RPCError, got %v", err)
	}
	if rpcErr.Code != -32000 || rpcErr.Message != "boom" {
		t.Errorf("RPCError = %+v", rpcErr)
	}
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.GetReferenceGasPrice(context.Background())
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d", httpErr.StatusCode)
	}
}

func TestClient_GetCoins_Paginates(t *testing.T) {
	node, c := newFakeNode(t)
	node.handle("suix_getCoins", func(p []json.RawMessage) (interface{}, *rpcError) {
		var cursor *string
		json.Unmarshal(p[2], &cursor)
		if cursor == nil {
			return map[string]interface{}{
				"data":        []interface{}{coinJSON(1, 10, 100), coinJSON(2, 11, 200)},
				"nextCursor":  "page2",
				"hasNextPage": true,
			}, nil
		}
		if *cursor != "page2" {
			return nil, &rpcError{Code: -32602, Message: "bad cursor"}
		}
		return map[string]interface{}{
			"data":        []interface{}{coinJSON(3, 12, 300)},
			"nextCursor":  nil,
			"hasNextPage": false,
		}, nil
	})

	coins, err := c.GetCoins(context.Background(), testAddr(9), "0x2::sui::SUI")
	if err != nil {
		t.Fatalf("GetCoins: %v", err)
	}
	if len(coins) != 3 {
		t.Fatalf("got %d coins, want 3", len(coins))
	}
	for i, want := range []uint64{100, 200, 300} {
		if coins[i].Balance != want {
			t.Errorf("coin %d balance = %d, want %d", i, coins[i].Balance, want)
		}
	}
	ref := coins[1].Ref()
	if ref.ObjectID != testAddr(2) || ref.Version != 11 || ref.Digest != testDigest(2) {
		t.Errorf("coin ref = %v", ref)
	}
	if node.count("suix_getCoins") != 2 {
		t.Errorf("expected 2 page calls, got %d", node.count("suix_getCoins"))
	}
}

func TestClient_GetOwnedObjects(t *testing.T) {
	node, c := newFakeNode(t)
	node.handle("suix_getOwnedObjects", func(p []json.RawMessage) (interface{}, *rpcError) {
		var query struct {
			Filter struct {
				MatchAll []map[string]string `json:"MatchAll"`
			} `json:"filter"`
			Options map[string]bool `json:"options"`
		}
		json.Unmarshal(p[1], &query)
		if len(query.Filter.MatchAll) != 1 || query.Filter.MatchAll[0]["StructType"] != "0x1::coin_lock::CoinLock" {
			return nil, &rpcError{Code: -32602, Message: "bad filter"}
		}
		if !query.Options["showContent"] {
			return nil, &rpcError{Code: -32602, Message: "content not requested"}
		}
		return map[string]interface{}{
			"data": []interface{}{
				lockJSON(5, 1_500_000_000, 1_800_000, 1_700_000_000_000),
				map[string]interface{}{"error": map[string]interface{}{"code": "deleted"}},
			},
			"nextCursor":  nil,
			"hasNextPage": false,
		}, nil
	})

	objs, err := c.GetOwnedObjects(context.Background(), testAddr(9), "0x1::coin_lock::CoinLock")
	if err != nil {
		t.Fatalf("GetOwnedObjects: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("got %d objects, want 1", len(objs))
	}
	o := objs[0]
	if o.ObjectID != testAddr(5) || o.Version != 7 {
		t.Errorf("object = %+v", o)
	}
	bal, err := o.FieldUint("balance")
	if err != nil || bal != 1_500_000_000 {
		t.Errorf("balance field = %d, %v", bal, err)
	}
	if _, err := o.FieldUint("missing"); err == nil {
		t.Error("missing field should error")
	}
}

func TestClient_GetDynamicFieldObject(t *testing.T) {
	node, c := newFakeNode(t)
	node.handle("suix_getDynamicFieldObject", func(p []json.RawMessage) (interface{}, *rpcError) {
		var parent string
		var name struct {
			Type  string `json:"type"`
			Value []int  `json:"value"`
		}
		json.Unmarshal(p[0], &parent)
		json.Unmarshal(p[1], &name)
		key := make([]byte, 0, len(name.Value))
		for _, v := range name.Value {
			key = append(key, byte(v))
		}
		if name.Type != "vector<u8>" || string(key) != "note" {
			return nil, &rpcError{Code: -32602, Message: "bad name"}
		}
		if parent == testAddr(2).String() {
			return map[string]interface{}{
				"error": map[string]interface{}{"code": "dynamicFieldNotFound", "parent_object_id": parent},
			}, nil
		}
		return map[string]interface{}{
			"data": map[string]interface{}{
				"objectId": testAddr(0x77).String(),
				"version":  "3",
				"digest":   testDigest(0x77).String(),
				"content": map[string]interface{}{
					"dataType": "moveObject",
					"type":     "0x2::dynamic_field::Field<vector<u8>, 0x1::string::String>",
					"fields":   map[string]interface{}{"value": "rainy day fund"},
				},
			},
		}, nil
	})

	name := DynamicFieldName{Type: "vector<u8>", Value: []int{110, 111, 116, 101}}

	obj, err := c.GetDynamicFieldObject(context.Background(), testAddr(1), name)
	if err != nil {
		t.Fatalf("GetDynamicFieldObject: %v", err)
	}
	if obj == nil || obj.Field("value").String() != "rainy day fund" {
		t.Errorf("note = %+v", obj)
	}

	missing, err := c.GetDynamicFieldObject(context.Background(), testAddr(2), name)
	if err != nil {
		t.Fatalf("missing field should not error: %v", err)
	}
	if missing != nil {
		t.Error("missing field should return nil object")
	}
}

func TestClient_ExecuteTransactionBlock(t *testing.T) {
	node, c := newFakeNode(t)
	txBytes := []byte{0, 1, 2, 3}
	node.handle("sui_executeTransactionBlock", func(p []json.RawMessage) (interface{}, *rpcError) {
		var b64 string
		var sigs []string
		var mode string
		json.Unmarshal(p[0], &b64)
		json.Unmarshal(p[1], &sigs)
		json.Unmarshal(p[3], &mode)
		if b64 != base64.StdEncoding.EncodeToString(txBytes) || len(sigs) != 1 || mode != "WaitForLocalExecution" {
			return nil, &rpcError{Code: -32602, Message: "bad params"}
		}
		return map[string]interface{}{
			"digest": "TxDigest1",
			"effects": map[string]interface{}{
				"status": map[string]interface{}{"status": "failure", "error": "MoveAbort(lock, 1)"},
				"gasUsed": map[string]interface{}{
					"computationCost": "1000",
					"storageCost":     "2000",
					"storageRebate":   "500",
				},
			},
		}, nil
	})

	resp, err := c.ExecuteTransactionBlock(context.Background(), txBytes, []string{"sig"})
	if err != nil {
		t.Fatalf("ExecuteTransactionBlock: %v", err)
	}
	if resp.Success() {
		t.Error("failure status reported as success")
	}
	if resp.Digest != "TxDigest1" || resp.Error != "MoveAbort(lock, 1)" {
		t.Errorf("response = %+v", resp)
	}
	if resp.GasUsed.Net() != 2500 {
		t.Errorf("net gas = %d, want 2500", resp.GasUsed.Net())
	}
}

func TestClient_DryRunUsesEffectsDigest(t *testing.T) {
	node, c := newFakeNode(t)
	node.handle("sui_dryRunTransactionBlock", func([]json.RawMessage) (interface{}, *rpcError) {
		return map[string]interface{}{
			"effects": map[string]interface{}{
				"transactionDigest": "DryDigest",
				"status":            map[string]interface{}{"status": "success"},
				"gasUsed":           map[string]interface{}{"computationCost": "10", "storageCost": "0", "storageRebate": "0"},
			},
		}, nil
	})

	resp, err := c.DryRunTransactionBlock(context.Background(), []byte{1})
	if err != nil {
		t.Fatalf("DryRunTransactionBlock: %v", err)
	}
	if !resp.Success() || resp.Digest != "DryDigest" {
		t.Errorf("response = %+v", resp)
	}
}

func TestClient_GetReferenceGasPrice(t *testing.T) {
	node, c := newFakeNode(t)
	node.handle("suix_getReferenceGasPrice", func([]json.RawMessage) (interface{}, *rpcError) {
		return "750", nil
	})
	price, err := c.GetReferenceGasPrice(context.Background())
	if err != nil || price != 750 {
		t.Errorf("GetReferenceGasPrice = %d, %v", price, err)
	}
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	node, _ := newFakeNode(t)
	node.handle("suix_getReferenceGasPrice", func([]json.RawMessage) (interface{}, *rpcError) {
		return "1", nil
	})
	srv := httptest.NewServer(node)
	defer srv.Close()

	c := New(srv.URL, time.Second, WithRateLimit(0.001, 1))
	ctx := context.Background()
	if _, err := c.GetReferenceGasPrice(ctx); err != nil {
		t.Fatalf("first call: %v", err)
	}

	// The bucket is empty now; the next call must give up with the context.
	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := c.GetReferenceGasPrice(ctx); err == nil {
		t.Error("expected rate limit error")
	}
	if node.count("suix_getReferenceGasPrice") != 1 {
		t.Errorf("limited call reached the node")
	}
}
