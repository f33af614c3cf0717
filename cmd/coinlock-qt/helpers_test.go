package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Klingon-tech/coinlock/internal/coinlock"
	"github.com/Klingon-tech/coinlock/internal/format"
	"github.com/Klingon-tech/coinlock/internal/history"
	"github.com/Klingon-tech/coinlock/internal/wallet"
	"github.com/Klingon-tech/coinlock/pkg/crypto"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

func TestAccountView(t *testing.T) {
	if accountView(nil) != nil {
		t.Error("nil account should give a nil view")
	}
	v := accountView(&coinlock.Account{Balance: 12_500_000_000})
	if v.Balance != "12.5" || v.Mist != "12500000000" || v.Max != "Max: 12.5" {
		t.Errorf("view = %+v", v)
	}
}

func TestTableView(t *testing.T) {
	var id types.ObjectID
	id[31] = 7
	rows := []coinlock.Position{{
		ID:      id,
		Balance: 1_500_000_000,
		Range:   format.TimeRange{Start: "s", Duration: "1 hour", End: "e", HasEnded: true},
	}}

	v := tableView(&coinlock.Account{}, rows, nil)
	if len(v.Rows) != 1 || v.Error != "" {
		t.Fatalf("view = %+v", v)
	}
	row := v.Rows[0]
	if row.Amount != "1.5000 SUI" || row.Note != coinlock.NoNote || !row.CanWithdraw || row.ID != id.String() {
		t.Errorf("row = %+v", row)
	}

	v = tableView(&coinlock.Account{}, nil, errors.New("node unavailable"))
	if v.Error != "node unavailable" || v.Rows == nil || len(v.Rows) != 0 {
		t.Errorf("error view = %+v", v)
	}
	if v.Account == nil {
		t.Error("account should survive a query error")
	}
}

func TestResultView(t *testing.T) {
	if resultView(nil) != nil {
		t.Error("nil result should give a nil view")
	}
	v := resultView(&coinlock.Result{Digest: "D", Success: true, GasUsed: 2_000_000})
	if v.Digest != "D" || !v.Success || v.GasUsed != "0.002" {
		t.Errorf("view = %+v", v)
	}
}

func TestNotificationView(t *testing.T) {
	v := notificationView(coinlock.WithdrawNotification(nil, errors.New("boom")))
	if v.Kind != "error" || v.Title != coinlock.TitleWithdrawFailed || v.Message != "boom" {
		t.Errorf("view = %+v", v)
	}
	v = notificationView(coinlock.WithdrawNotification(&coinlock.Result{Digest: "D"}, nil))
	if v.Kind != "success" || v.Message != "D" {
		t.Errorf("view = %+v", v)
	}
}

func TestHistoryView(t *testing.T) {
	lock := historyView(history.Entry{
		Digest:     "D1",
		Kind:       history.KindLock,
		Status:     history.StatusSuccess,
		Amount:     2_000_000_000,
		DurationMs: 3_600_000,
		Note:       "rent",
		Time:       time.Now(),
	})
	if lock.Detail != "2 SUI for 1 hour: rent" || lock.Status != "success" {
		t.Errorf("lock view = %+v", lock)
	}

	withdraw := historyView(history.Entry{Kind: history.KindWithdraw, LockID: "0x07", Status: history.StatusFailure, Error: "aborted"})
	if withdraw.Detail != "0x07" || withdraw.Error != "aborted" {
		t.Errorf("withdraw view = %+v", withdraw)
	}
}

func TestDurationsView(t *testing.T) {
	got := (&LockService{}).GetDurations()
	if len(got) != len(coinlock.Durations) {
		t.Fatalf("got %d durations", len(got))
	}
	defaults := 0
	for _, d := range got {
		if d.Default {
			defaults++
			if d.Key != coinlock.DefaultDurationKey {
				t.Errorf("default = %q", d.Key)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("%d defaults, want 1", defaults)
	}
}

func TestLockServiceNotConnected(t *testing.T) {
	s := newLockService(&App{})
	if _, err := s.GetPositions(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("GetPositions() error = %v", err)
	}
	if _, err := s.Lock(LockRequest{Amount: "1"}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Lock() error = %v", err)
	}
	if _, err := s.GetHistory(10); !errors.Is(err, ErrNotConnected) {
		t.Errorf("GetHistory() error = %v", err)
	}
}

func TestLockServiceDisconnectWipesKey(t *testing.T) {
	kp, err := crypto.NewKeypair(crypto.Ed25519, bytes.Repeat([]byte{7}, crypto.PrivateKeySize))
	if err != nil {
		t.Fatal(err)
	}
	conn := wallet.NewConnector(kp, nil)
	svc := coinlock.NewService(nil, conn, coinlock.Contract{})

	s := newLockService(&App{})
	s.svc, s.conn = svc, conn
	if !s.IsConnected() {
		t.Fatal("service should report connected")
	}

	s.Disconnect()
	if s.IsConnected() || conn.Connected() {
		t.Error("still connected after Disconnect")
	}
	if !bytes.Equal(kp.PrivateKey(), make([]byte, crypto.PrivateKeySize)) {
		t.Error("key not wiped")
	}
	if _, err := svc.Account(context.Background()); !errors.Is(err, coinlock.ErrWalletNotConnected) {
		t.Errorf("Account() on a detached service = %v", err)
	}
	s.Disconnect()
}
