package main

import (
	"strconv"
	"time"

	"github.com/Klingon-tech/coinlock/internal/coinlock"
	"github.com/Klingon-tech/coinlock/internal/format"
	"github.com/Klingon-tech/coinlock/internal/history"
)

// AccountView is the connected account as shown by the frontend.
type AccountView struct {
	Address string `json:"address"`
	Balance string `json:"balance"` // SUI, trailing zeros trimmed
	Mist    string `json:"mist"`
	Max     string `json:"max"` // amount placeholder
}

// PositionView is one row of the position table.
type PositionView struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Start       string `json:"start"`
	Duration    string `json:"duration"`
	End         string `json:"end"`
	Note        string `json:"note"`
	CanWithdraw bool   `json:"can_withdraw"`
}

// TableView is the position table, or the error that replaced it.
type TableView struct {
	Account *AccountView   `json:"account,omitempty"`
	Rows    []PositionView `json:"rows"`
	Error   string         `json:"error,omitempty"`
}

// DurationView is a lock duration choice.
type DurationView struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Default bool   `json:"default"`
}

// LockRequest is the lock dialog input.
type LockRequest struct {
	Amount   string `json:"amount"`
	Duration string `json:"duration"`
	Note     string `json:"note"`
}

// ResultView is the outcome of a transaction.
type ResultView struct {
	Digest  string `json:"digest"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	GasUsed string `json:"gas_used"`
}

// NotificationView is a toast.
type NotificationView struct {
	Kind    string `json:"kind"` // "success" or "error"
	Title   string `json:"title"`
	Message string `json:"message"`
}

// HistoryView is one journaled transaction.
type HistoryView struct {
	Digest string `json:"digest"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
	Detail string `json:"detail"`
	Error  string `json:"error,omitempty"`
	Time   string `json:"time"`
}

func accountView(a *coinlock.Account) *AccountView {
	if a == nil {
		return nil
	}
	balance := format.FormatBalance(a.Balance)
	return &AccountView{
		Address: a.Address.String(),
		Balance: balance,
		Mist:    strconv.FormatUint(a.Balance, 10),
		Max:     "Max: " + balance,
	}
}

func positionView(p coinlock.Position) PositionView {
	return PositionView{
		ID:          p.ID.String(),
		Amount:      p.AmountLabel(),
		Start:       p.Range.Start,
		Duration:    p.Range.Duration,
		End:         p.Range.End,
		Note:        p.NoteLabel(),
		CanWithdraw: p.CanWithdraw(),
	}
}

func tableView(acct *coinlock.Account, rows []coinlock.Position, err error) *TableView {
	v := &TableView{Account: accountView(acct), Rows: []PositionView{}}
	if err != nil {
		v.Error = err.Error()
		return v
	}
	for _, p := range rows {
		v.Rows = append(v.Rows, positionView(p))
	}
	return v
}

func resultView(r *coinlock.Result) *ResultView {
	if r == nil {
		return nil
	}
	return &ResultView{
		Digest:  r.Digest,
		Success: r.Success,
		Error:   r.Error,
		GasUsed: format.FormatBalance(r.GasUsed),
	}
}

func notificationView(n coinlock.Notification) NotificationView {
	kind := "success"
	if n.Kind == coinlock.NotifyError {
		kind = "error"
	}
	return NotificationView{Kind: kind, Title: n.Title, Message: n.Message}
}

func historyView(e history.Entry) HistoryView {
	v := HistoryView{
		Digest: e.Digest,
		Kind:   string(e.Kind),
		Status: string(e.Status),
		Error:  e.Error,
		Time:   e.Time.In(time.Local).Format(format.DateTimeLayout),
	}
	switch e.Kind {
	case history.KindLock:
		v.Detail = format.FormatBalance(e.Amount) + " SUI for " + format.DurationLabel(e.DurationMs)
		if e.Note != "" {
			v.Detail += ": " + e.Note
		}
	case history.KindWithdraw:
		v.Detail = e.LockID
	}
	return v
}
