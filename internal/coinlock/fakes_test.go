package coinlock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Klingon-tech/coinlock/internal/history"
	"github.com/Klingon-tech/coinlock/internal/suiclient"
	"github.com/Klingon-tech/coinlock/internal/wallet"
	"github.com/Klingon-tech/coinlock/pkg/tx"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

var testPackage = addr(0xc0)

func addr(b byte) types.Address {
	var a types.Address
	a[31] = b
	return a
}

func testContract() Contract {
	return Contract{
		Package:    testPackage,
		Module:     "coin_lock",
		LockType:   "CoinLock",
		LockFn:     "lock_coin",
		WithdrawFn: "withdraw_coin",
		GasBudget:  50_000_000,
	}
}

// fakeChain serves coins, locks and notes from memory.
type fakeChain struct {
	mu        sync.Mutex
	balance   uint64
	coins     []suiclient.Coin
	locks     []*suiclient.Object
	notes     map[types.ObjectID]string
	noteErr   map[types.ObjectID]error
	queryErr  error
	gasPrice  uint64
	dryRun    *suiclient.TransactionResponse
	dryRunTxs int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		notes:    make(map[types.ObjectID]string),
		noteErr:  make(map[types.ObjectID]error),
		gasPrice: 750,
	}
}

func (f *fakeChain) addCoin(id byte, balance uint64) {
	f.coins = append(f.coins, suiclient.Coin{
		CoinType: "0x2::sui::SUI",
		ObjectID: addr(id),
		Version:  uint64(id) + 10,
		Balance:  balance,
	})
	f.balance += balance
}

func (f *fakeChain) addLock(id byte, balance, createdMs, durationMs uint64) *suiclient.Object {
	content := fmt.Sprintf(`{"dataType":"moveObject","fields":{"balance":"%d","duration":"%d","time_created":"%d"}}`,
		balance, durationMs, createdMs)
	ref := types.ObjectRef{ObjectID: addr(id), Version: 5}
	obj := suiclient.NewObject(ref, testContract().StructType(), content)
	f.locks = append(f.locks, obj)
	return obj
}

func (f *fakeChain) GetBalance(_ context.Context, _ types.Address, coinType string) (*suiclient.Balance, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &suiclient.Balance{CoinType: coinType, CoinObjectCount: len(f.coins), TotalBalance: f.balance}, nil
}

func (f *fakeChain) GetCoins(context.Context, types.Address, string) ([]suiclient.Coin, error) {
	return append([]suiclient.Coin(nil), f.coins...), nil
}

func (f *fakeChain) GetOwnedObjects(_ context.Context, _ types.Address, structType string) ([]*suiclient.Object, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []*suiclient.Object
	for _, l := range f.locks {
		if l.Type == structType {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeChain) GetObject(_ context.Context, id types.ObjectID) (*suiclient.Object, error) {
	for _, l := range f.locks {
		if l.ObjectID == id {
			return l, nil
		}
	}
	return nil, nil
}

func (f *fakeChain) GetDynamicFieldObject(_ context.Context, parent types.ObjectID, name suiclient.DynamicFieldName) (*suiclient.Object, error) {
	if name.Type != "vector<u8>" || fmt.Sprint(name.Value) != "[110 111 116 101]" {
		return nil, errors.New("unexpected dynamic field name")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.noteErr[parent]; err != nil {
		return nil, err
	}
	note, ok := f.notes[parent]
	if !ok {
		return nil, nil
	}
	content := fmt.Sprintf(`{"fields":{"name":[110,111,116,101],"value":%q}}`, note)
	return suiclient.NewObject(types.ObjectRef{ObjectID: addr(0xee)}, "0x2::dynamic_field::Field", content), nil
}

func (f *fakeChain) GetReferenceGasPrice(context.Context) (uint64, error) {
	return f.gasPrice, nil
}

func (f *fakeChain) DryRunTransactionBlock(context.Context, []byte) (*suiclient.TransactionResponse, error) {
	f.dryRunTxs++
	if f.dryRun != nil {
		return f.dryRun, nil
	}
	return &suiclient.TransactionResponse{Status: suiclient.StatusSuccess, GasUsed: suiclient.GasCost{ComputationCost: 1000}}, nil
}

// fakeWallet records what it was asked to sign.
type fakeWallet struct {
	addr types.Address
	resp *suiclient.TransactionResponse
	err  error
	txs  []*tx.TransactionData
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		addr: addr(0xaa),
		resp: &suiclient.TransactionResponse{Digest: "TXDIGEST", Status: suiclient.StatusSuccess},
	}
}

func (w *fakeWallet) Address() (types.Address, error) {
	return w.addr, nil
}

func (w *fakeWallet) SignAndExecute(_ context.Context, td *tx.TransactionData) (*suiclient.TransactionResponse, error) {
	w.txs = append(w.txs, td)
	if w.err != nil {
		return nil, w.err
	}
	if !w.resp.Success() {
		return w.resp, &wallet.ExecutionError{Digest: w.resp.Digest, Message: w.resp.Error}
	}
	return w.resp, nil
}

type memJournal struct {
	entries []history.Entry
}

func (j *memJournal) Record(e history.Entry) error {
	j.entries = append(j.entries, e)
	return nil
}

// fixedNow is the clock used by service tests.
var fixedNow = time.UnixMilli(100_000_000)

func newTestService(chain *fakeChain, w Wallet, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithLocation(time.UTC)}, opts...)
	return NewService(chain, w, testContract(), opts...)
}
