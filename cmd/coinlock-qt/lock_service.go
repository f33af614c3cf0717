package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/Klingon-tech/coinlock/config"
	"github.com/Klingon-tech/coinlock/internal/coinlock"
	"github.com/Klingon-tech/coinlock/internal/history"
	"github.com/Klingon-tech/coinlock/internal/log"
	"github.com/Klingon-tech/coinlock/internal/wallet"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

// Frontend events.
const (
	eventNotification = "notification"
	eventPositions    = "positions-changed"
)

// ErrNotConnected is returned by calls that need an unlocked wallet.
var ErrNotConnected = errors.New("connect a wallet first")

// LockService exposes the coin lock operations to the frontend. One wallet
// is connected at a time.
type LockService struct {
	app *App

	mu      sync.Mutex
	cfg     *config.Config
	svc     *coinlock.Service
	conn    *wallet.Connector
	table   *coinlock.Table
	dialog  *coinlock.Dialog
	journal *history.Journal
}

func newLockService(app *App) *LockService {
	return &LockService{app: app}
}

// Connect unlocks the active wallet and connects it.
func (s *LockService) Connect(password string) (*AccountView, error) {
	cfg, err := s.app.config()
	if err != nil {
		return nil, err
	}
	contract, err := coinlock.ContractFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	ks, err := wallet.NewKeystore(cfg.KeystoreDir())
	if err != nil {
		return nil, err
	}
	kp, err := ks.Unlock(s.app.GetActiveWallet(), []byte(password))
	if err != nil {
		if errors.Is(err, wallet.ErrWrongPassword) {
			return nil, errors.New("wrong password")
		}
		return nil, err
	}

	s.Disconnect()

	journal, err := history.Open(cfg.HistoryDir())
	if err != nil {
		return nil, err
	}
	client := s.app.client(cfg)
	conn := wallet.NewConnector(kp, client)
	svc := coinlock.NewService(client, conn, contract, coinlock.WithJournal(journal))

	s.mu.Lock()
	s.cfg, s.svc, s.conn, s.journal = cfg, svc, conn, journal
	s.table = coinlock.NewTable(svc)
	s.dialog = coinlock.NewDialog(svc, s.notify, s.positionsChanged)
	s.mu.Unlock()

	log.Wallet.Info().Str("address", kp.Address().String()).Msg("wallet connected")
	return s.GetAccount()
}

// Disconnect wipes the connected key and closes the history. Calls
// already holding the service fail with coinlock.ErrWalletNotConnected.
func (s *LockService) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc != nil {
		s.svc.SetWallet(nil)
	}
	s.conn.Disconnect()
	if s.journal != nil {
		s.journal.Close()
	}
	s.cfg, s.svc, s.conn, s.table, s.dialog, s.journal = nil, nil, nil, nil, nil, nil
}

// IsConnected reports whether a wallet is connected.
func (s *LockService) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.svc != nil
}

func (s *LockService) session() (*coinlock.Service, *coinlock.Table, *coinlock.Dialog, *config.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc == nil {
		return nil, nil, nil, nil, ErrNotConnected
	}
	return s.svc, s.table, s.dialog, s.cfg, nil
}

func (s *LockService) context(cfg *config.Config) (context.Context, context.CancelFunc) {
	parent := s.app.ctx
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, 2*cfg.RPC.Timeout)
}

// GetAccount returns the connected address and balance.
func (s *LockService) GetAccount() (*AccountView, error) {
	svc, _, _, cfg, err := s.session()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.context(cfg)
	defer cancel()
	acct, err := svc.Account(ctx)
	if err != nil {
		return nil, err
	}
	return accountView(acct), nil
}

// GetPositions refreshes and returns the position table.
func (s *LockService) GetPositions() (*TableView, error) {
	_, table, _, cfg, err := s.session()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.context(cfg)
	defer cancel()
	table.Refresh(ctx)
	return tableView(table.Snapshot()), nil
}

// GetDurations returns the lock duration choices.
func (s *LockService) GetDurations() []DurationView {
	out := make([]DurationView, len(coinlock.Durations))
	for i, d := range coinlock.Durations {
		out[i] = DurationView{
			Key:     d.Key,
			Label:   d.Label,
			Default: d.Key == coinlock.DefaultDurationKey,
		}
	}
	return out
}

// Lock validates req against the current balance and locks the coin. The
// outcome is also delivered as a notification.
func (s *LockService) Lock(req LockRequest) (*ResultView, error) {
	svc, _, dialog, cfg, err := s.session()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.context(cfg)
	defer cancel()

	acct, err := svc.Account(ctx)
	if err != nil {
		return nil, err
	}

	dialog.Open()
	dialog.SetAmount(req.Amount)
	dialog.SetDuration(req.Duration)
	dialog.SetNote(req.Note)

	sub, err := dialog.Begin(acct)
	if err != nil {
		return nil, err
	}
	res, err := svc.Lock(ctx, sub.LockRequest)
	dialog.Finish(sub, res, err)
	return resultView(res), err
}

// ValidateLock checks a lock request without submitting it. An empty
// string means the request is valid.
func (s *LockService) ValidateLock(req LockRequest) (string, error) {
	svc, _, _, cfg, err := s.session()
	if err != nil {
		return "", err
	}
	ctx, cancel := s.context(cfg)
	defer cancel()
	acct, err := svc.Account(ctx)
	if err != nil {
		return "", err
	}

	probe := coinlock.NewDialog(svc, nil, nil)
	probe.Open()
	probe.SetAmount(req.Amount)
	probe.SetDuration(req.Duration)
	probe.SetNote(req.Note)
	if _, err := probe.Validate(acct); err != nil {
		return err.Error(), nil
	}
	return "", nil
}

// Withdraw withdraws a matured lock.
func (s *LockService) Withdraw(lockID string) (*ResultView, error) {
	_, table, _, cfg, err := s.session()
	if err != nil {
		return nil, err
	}
	id, err := types.ParseAddress(lockID)
	if err != nil {
		return nil, fmt.Errorf("invalid lock id: %w", err)
	}
	ctx, cancel := s.context(cfg)
	defer cancel()

	res, err := table.Withdraw(ctx, id)
	s.notify(coinlock.WithdrawNotification(res, err))
	s.positionsChanged()
	return resultView(res), err
}

// GetHistory returns journaled transactions, newest first.
func (s *LockService) GetHistory(limit int) ([]HistoryView, error) {
	s.mu.Lock()
	journal := s.journal
	s.mu.Unlock()
	if journal == nil {
		return nil, ErrNotConnected
	}
	entries, err := journal.List(limit)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryView, len(entries))
	for i, e := range entries {
		out[i] = historyView(e)
	}
	return out, nil
}

func (s *LockService) notify(n coinlock.Notification) {
	sendOSNotification(n.Title, n.Message, n.Kind == coinlock.NotifyError)
	if s.app.ctx != nil {
		runtime.EventsEmit(s.app.ctx, eventNotification, notificationView(n))
	}
}

func (s *LockService) positionsChanged() {
	if s.app.ctx != nil {
		runtime.EventsEmit(s.app.ctx, eventPositions)
	}
}
