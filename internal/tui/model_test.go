package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Klingon-tech/coinlock/internal/coinlock"
	"github.com/Klingon-tech/coinlock/internal/format"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

const sui = 1_000_000_000

type fakeSource struct {
	mu          sync.Mutex
	account     *coinlock.Account
	rows        []coinlock.Position
	queryErr    error
	lockErr     error
	withdrawErr error
	locked      []coinlock.LockRequest
	withdrawn   []types.ObjectID
}

func (f *fakeSource) Account(context.Context) (*coinlock.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	acct := *f.account
	return &acct, nil
}

func (f *fakeSource) Positions(context.Context) ([]coinlock.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return append([]coinlock.Position(nil), f.rows...), nil
}

func (f *fakeSource) Lock(_ context.Context, req coinlock.LockRequest) (*coinlock.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	f.locked = append(f.locked, req)
	return &coinlock.Result{Digest: "LockDigest", Success: true}, nil
}

func (f *fakeSource) Withdraw(_ context.Context, id types.ObjectID, _ bool) (*coinlock.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.withdrawErr != nil {
		return nil, f.withdrawErr
	}
	f.withdrawn = append(f.withdrawn, id)
	return &coinlock.Result{Digest: "WithdrawDigest", Success: true}, nil
}

func objectID(b byte) types.ObjectID {
	var id types.ObjectID
	id[31] = b
	return id
}

func position(id byte, balance uint64, matured bool) coinlock.Position {
	return coinlock.Position{
		ID:         objectID(id),
		Balance:    balance,
		DurationMs: 30 * 60 * 1000,
		Range: format.TimeRange{
			Start:    "01/02/2026, 10:00",
			Duration: "30 minutes",
			End:      "01/02/2026, 10:30",
			HasEnded: matured,
		},
	}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		account: &coinlock.Account{Balance: 12*sui + sui/2},
		rows: []coinlock.Position{
			position(1, sui, false),
			position(2, 3*sui, true),
		},
	}
}

// newTestModel returns a model that has completed its first refresh.
func newTestModel(t *testing.T, src *fakeSource) *Model {
	t.Helper()
	m := New(src, WithRefreshInterval(0))
	m.Update(m.refresh()())
	return m
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func lastToast(t *testing.T, m *Model) toast {
	t.Helper()
	if len(m.toasts) == 0 {
		t.Fatal("expected a notification")
	}
	return m.toasts[len(m.toasts)-1]
}

func TestModel_RefreshRendersTable(t *testing.T) {
	m := newTestModel(t, newFakeSource())

	view := m.View()
	for _, want := range []string{"Balance: 12.5 SUI", "1.0000 SUI", "3.0000 SUI", "N/A", "30 minutes", "withdraw"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_LoadingAndEmpty(t *testing.T) {
	src := newFakeSource()
	src.rows = nil
	m := New(src, WithRefreshInterval(0))

	if !strings.Contains(m.View(), "Loading") {
		t.Error("view should show loading before the first refresh")
	}
	m.Update(m.refresh()())
	if !strings.Contains(m.View(), "No locks yet") {
		t.Errorf("view should show the empty state:\n%s", m.View())
	}
}

func TestModel_RefreshErrorReplacesRows(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(t, src)

	src.queryErr = errors.New("node unavailable")
	m.Update(m.refresh()())

	view := m.View()
	if !strings.Contains(view, "Error: node unavailable") {
		t.Errorf("view should show the query error:\n%s", view)
	}
	if strings.Contains(view, "3.0000 SUI") {
		t.Error("rows should be hidden while the query fails")
	}

	src.queryErr = nil
	m.Update(m.refresh()())
	if strings.Contains(m.View(), "Error:") {
		t.Error("a successful refresh should clear the error")
	}
}

func TestModel_CursorMovement(t *testing.T) {
	m := newTestModel(t, newFakeSource())

	press(m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	press(m, "j", "j", "j")
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestModel_LockFlow(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(t, src)

	press(m, "l")
	if m.dialog.State() != coinlock.DialogEditing {
		t.Fatalf("dialog state = %v, want editing", m.dialog.State())
	}
	if m.amount.Placeholder != "Max: 12.5" {
		t.Errorf("placeholder = %q", m.amount.Placeholder)
	}

	press(m, "2", ".", "5", "tab", "right", "right", "tab", "h", "i")
	amount, duration, note := m.dialog.Fields()
	if amount != "2.5" || duration != "2hrs" || note != "hi" {
		t.Fatalf("fields = %q %q %q", amount, duration, note)
	}

	cmd := press(m, "enter")
	if cmd == nil {
		t.Fatal("submit should return the lock command")
	}
	if m.dialog.State() != coinlock.DialogSubmitting {
		t.Fatalf("dialog state = %v, want submitting", m.dialog.State())
	}
	if press(m, "esc"); m.dialog.State() != coinlock.DialogSubmitting {
		t.Error("keys should be ignored while submitting")
	}

	m.Update(cmd())
	if m.dialog.State() != coinlock.DialogClosed {
		t.Errorf("dialog state = %v, want closed", m.dialog.State())
	}
	if len(src.locked) != 1 {
		t.Fatalf("locked %d times, want 1", len(src.locked))
	}
	req := src.locked[0]
	if req.Amount != 2*sui+sui/2 || req.DurationMs != 2*60*60*1000 || req.Note != "hi" {
		t.Errorf("request = %+v", req)
	}
	if n := lastToast(t, m); n.Kind != coinlock.NotifySuccess || n.Title != coinlock.TitleLocked {
		t.Errorf("notification = %+v", n)
	}
}

func TestModel_LockValidationError(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(t, src)

	press(m, "l", "enter")
	if m.dialog.State() != coinlock.DialogEditing {
		t.Errorf("dialog state = %v, want editing", m.dialog.State())
	}
	n := lastToast(t, m)
	if n.Kind != coinlock.NotifyError || n.Message != coinlock.ErrAmountRequired.Error() {
		t.Errorf("notification = %+v", n)
	}

	press(m, "2", "0")
	if !strings.Contains(m.View(), coinlock.ErrInsufficientBalance.Error()) {
		t.Error("dialog should show the insufficient balance hint")
	}
	press(m, "enter")
	if len(src.locked) != 0 {
		t.Error("an invalid request must not be submitted")
	}
}

func TestModel_LockFailureKeepsInput(t *testing.T) {
	src := newFakeSource()
	src.lockErr = errors.New("rejected by wallet")
	m := newTestModel(t, src)

	press(m, "l", "1")
	m.Update(press(m, "enter")())

	if m.dialog.State() != coinlock.DialogEditing {
		t.Fatalf("dialog state = %v, want editing", m.dialog.State())
	}
	if amount, _, _ := m.dialog.Fields(); amount != "1" {
		t.Errorf("amount = %q, want input kept", amount)
	}
	if n := lastToast(t, m); n.Title != coinlock.TitleLockFailed || n.Message != "rejected by wallet" {
		t.Errorf("notification = %+v", n)
	}
}

func TestModel_DialogTypingDoesNotQuit(t *testing.T) {
	m := newTestModel(t, newFakeSource())

	press(m, "l", "tab", "tab")
	press(m, "q")
	if m.note.Value() != "q" {
		t.Errorf("note = %q", m.note.Value())
	}

	press(m, "esc")
	if m.dialog.State() != coinlock.DialogClosed {
		t.Error("esc should close the dialog")
	}
	if _, quit := press(m, "q")().(tea.QuitMsg); !quit {
		t.Error("q should quit from the table")
	}
}

func TestModel_WithdrawMaturedOnly(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(t, src)

	press(m, "w")
	if len(m.pending) != 0 {
		t.Error("an unmatured lock must not be withdrawn")
	}
	if n := lastToast(t, m); n.Kind != coinlock.NotifyError {
		t.Errorf("notification = %+v", n)
	}

	cmd := press(m, "j", "w")
	if cmd == nil || !m.pending[objectID(2)] {
		t.Fatal("withdraw should start for the matured lock")
	}
	if !strings.Contains(m.View(), statusWithdrawing) {
		t.Error("row should show the pending withdraw")
	}
	if press(m, "w") != nil {
		t.Error("a second withdraw of the same lock should be ignored")
	}

	src.rows = src.rows[:1]
	m.Update(cmd())
	if len(src.withdrawn) != 1 || src.withdrawn[0] != objectID(2) {
		t.Fatalf("withdrawn = %v", src.withdrawn)
	}
	if len(m.pending) != 0 {
		t.Error("pending withdraw should clear")
	}
	if len(m.rows) != 1 || m.cursor != 0 {
		t.Errorf("rows = %d cursor = %d after refresh", len(m.rows), m.cursor)
	}
	if n := lastToast(t, m); n.Title != coinlock.TitleWithdrawn || n.Message != "WithdrawDigest" {
		t.Errorf("notification = %+v", n)
	}
}

func TestModel_WithdrawFailure(t *testing.T) {
	src := newFakeSource()
	src.withdrawErr = errors.New("lock has not matured yet")
	m := newTestModel(t, src)

	m.Update(press(m, "j", "w")())
	if n := lastToast(t, m); n.Kind != coinlock.NotifyError || n.Title != coinlock.TitleWithdrawFailed {
		t.Errorf("notification = %+v", n)
	}
}

func TestModel_ToastExpiry(t *testing.T) {
	m := newTestModel(t, newFakeSource())

	for i := 0; i < maxToasts+2; i++ {
		press(m, "w")
	}
	if len(m.toasts) != maxToasts {
		t.Fatalf("toasts = %d, want %d", len(m.toasts), maxToasts)
	}

	id := m.toasts[0].id
	m.Update(toastExpiredMsg{id: id})
	if len(m.toasts) != maxToasts-1 {
		t.Errorf("toasts = %d after expiry", len(m.toasts))
	}
	for _, tt := range m.toasts {
		if tt.id == id {
			t.Error("expired toast still visible")
		}
	}
}

func TestCell_StatusLabelsFit(t *testing.T) {
	width := columns[len(columns)-1].width
	for _, label := range []string{statusLocked, statusWithdraw, statusWithdrawing} {
		got := cell(label, width)
		if strings.TrimRight(got, " ") != label {
			t.Errorf("cell(%q, %d) = %q, label truncated", label, width, got)
		}
	}
	if got := cell("withdrawing", 10); got != "withdra..." {
		t.Errorf("cell truncation = %q", got)
	}
}

func TestOutcomeLevel(t *testing.T) {
	tests := []struct {
		err  error
		want zerolog.Level
	}{
		{nil, zerolog.InfoLevel},
		{coinlock.ErrInsufficientBalance, zerolog.DebugLevel},
		{fmt.Errorf("build: %w", coinlock.ErrLockNotMatured), zerolog.DebugLevel},
		{errors.New("rpc unavailable"), zerolog.WarnLevel},
	}
	for _, tt := range tests {
		if got := outcomeLevel(tt.err); got != tt.want {
			t.Errorf("outcomeLevel(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
