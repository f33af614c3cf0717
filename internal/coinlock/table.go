package coinlock

import (
	"context"
	"sync"

	"github.com/Klingon-tech/coinlock/pkg/types"
)

// Source is the backend of the front-ends. *Service implements it.
type Source interface {
	Locker
	Account(ctx context.Context) (*Account, error)
	Positions(ctx context.Context) ([]Position, error)
	Withdraw(ctx context.Context, lockID types.ObjectID, dryRun bool) (*Result, error)
}

// Table is the position table model shared by the front-ends. A failed
// query replaces the rows with the error until the next successful
// refresh.
type Table struct {
	svc Source

	mu      sync.RWMutex
	account *Account
	rows    []Position
	err     error
	loaded  bool
}

// NewTable creates an empty table over svc.
func NewTable(svc Source) *Table {
	return &Table{svc: svc}
}

// Refresh re-queries the account and its positions.
func (t *Table) Refresh(ctx context.Context) error {
	acct, err := t.svc.Account(ctx)
	var rows []Position
	if err == nil {
		rows, err = t.svc.Positions(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.loaded = true
	if err != nil {
		t.rows = nil
		t.err = err
		return err
	}
	t.account, t.rows, t.err = acct, rows, nil
	return nil
}

// Snapshot returns the last refresh result: the account (which survives
// query errors), the rows, and the query error if the last refresh failed.
func (t *Table) Snapshot() (*Account, []Position, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rows := make([]Position, len(t.rows))
	copy(rows, t.rows)
	return t.account, rows, t.err
}

// Loaded reports whether Refresh has completed at least once.
func (t *Table) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loaded
}

// Withdraw withdraws a lock and refreshes the table whatever the outcome.
func (t *Table) Withdraw(ctx context.Context, id types.ObjectID) (*Result, error) {
	res, err := t.svc.Withdraw(ctx, id, false)
	t.Refresh(ctx)
	return res, err
}
