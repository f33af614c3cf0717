// Package tui is the terminal front-end: a table of the account's locks and
// a dialog to lock more SUI.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Klingon-tech/coinlock/internal/coinlock"
	"github.com/Klingon-tech/coinlock/internal/format"
	"github.com/Klingon-tech/coinlock/internal/log"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRefresh = 30 * time.Second
	defaultToast   = 5 * time.Second
	maxToasts      = 4
	noteCharLimit  = 120
)

// Dialog fields in focus order.
const (
	fieldAmount = iota
	fieldDuration
	fieldNote
	fieldCount
)

// Messages.
type (
	refreshedMsg struct{}
	tickMsg      struct{}
	lockDoneMsg  struct {
		sub coinlock.Submission
		res *coinlock.Result
		err error
	}
	withdrawDoneMsg struct {
		id  types.ObjectID
		res *coinlock.Result
		err error
	}
	toastExpiredMsg struct{ id int }
)

type toast struct {
	id int
	coinlock.Notification
}

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the title bar text.
func WithTitle(title string) Option { return func(m *Model) { m.title = title } }

// WithTimeout bounds every chain round trip.
func WithTimeout(d time.Duration) Option { return func(m *Model) { m.timeout = d } }

// WithRefreshInterval sets the periodic refresh; zero disables it.
func WithRefreshInterval(d time.Duration) Option { return func(m *Model) { m.refreshEvery = d } }

// WithToastDuration sets how long notifications stay visible.
func WithToastDuration(d time.Duration) Option { return func(m *Model) { m.toastTTL = d } }

// Model is the bubbletea model of the terminal front-end.
type Model struct {
	src    coinlock.Source
	table  *coinlock.Table
	dialog *coinlock.Dialog

	title        string
	timeout      time.Duration
	refreshEvery time.Duration
	toastTTL     time.Duration

	account *coinlock.Account
	rows    []coinlock.Position
	err     error
	cursor  int
	pending map[types.ObjectID]bool

	amount   textinput.Model
	note     textinput.Model
	duration int
	focus    int

	toasts    []toast
	nextToast int
	inbox     []coinlock.Notification
	reload    bool

	help   help.Model
	width  int
	height int
}

// New creates the model over src.
func New(src coinlock.Source, opts ...Option) *Model {
	m := &Model{
		src:          src,
		table:        coinlock.NewTable(src),
		title:        "CoinLock",
		timeout:      defaultTimeout,
		refreshEvery: defaultRefresh,
		toastTTL:     defaultToast,
		pending:      make(map[types.ObjectID]bool),
		help:         help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.dialog = coinlock.NewDialog(src,
		func(n coinlock.Notification) { m.inbox = append(m.inbox, n) },
		func() { m.reload = true },
	)

	m.amount = textinput.New()
	m.amount.Prompt = ""
	m.amount.CharLimit = 32
	m.note = textinput.New()
	m.note.Prompt = ""
	m.note.Placeholder = "Note (optional)"
	m.note.CharLimit = noteCharLimit
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(src coinlock.Source, opts ...Option) error {
	_, err := tea.NewProgram(New(src, opts...), tea.WithAltScreen()).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.tick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.dialog.State() != coinlock.DialogClosed {
			return m.updateDialog(msg)
		}
		return m.updateTable(msg)

	case refreshedMsg:
		m.account, m.rows, m.err = m.table.Snapshot()
		if m.err != nil {
			log.UI.Warn().Err(m.err).Msg("refresh failed")
		}
		m.clampCursor()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), m.tick())

	case lockDoneMsg:
		log.UI.WithLevel(outcomeLevel(msg.err)).Err(msg.err).Msg("lock finished")
		m.dialog.Finish(msg.sub, msg.res, msg.err)
		if m.dialog.State() == coinlock.DialogClosed {
			m.blurInputs()
		}
		cmds := m.flush()
		if m.reload {
			m.reload = false
			cmds = append(cmds, m.refresh())
		}
		return m, tea.Batch(cmds...)

	case withdrawDoneMsg:
		log.UI.WithLevel(outcomeLevel(msg.err)).Err(msg.err).Str("lock", msg.id.Short()).Msg("withdraw finished")
		delete(m.pending, msg.id)
		m.inbox = append(m.inbox, coinlock.WithdrawNotification(msg.res, msg.err))
		// Table.Withdraw has already refreshed.
		m.account, m.rows, m.err = m.table.Snapshot()
		m.clampCursor()
		return m, tea.Batch(m.flush()...)

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.id == msg.id {
				m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Lock):
		return m, m.openDialog()
	case key.Matches(msg, keys.Withdraw):
		return m, m.withdrawSelected()
	}
	return m, nil
}

func (m *Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.dialog.State() == coinlock.DialogSubmitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Cancel):
		m.dialog.Close()
		m.blurInputs()
		return m, nil
	case key.Matches(msg, keys.Submit):
		return m, m.submit()
	case key.Matches(msg, keys.Next):
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case key.Matches(msg, keys.Prev):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldDuration:
		switch {
		case key.Matches(msg, keys.Left) && m.duration > 0:
			m.duration--
		case key.Matches(msg, keys.Right) && m.duration < len(coinlock.Durations)-1:
			m.duration++
		}
		m.dialog.SetDuration(coinlock.Durations[m.duration].Key)
	case fieldAmount:
		m.amount, cmd = m.amount.Update(msg)
		m.dialog.SetAmount(m.amount.Value())
	case fieldNote:
		m.note, cmd = m.note.Update(msg)
		m.dialog.SetNote(m.note.Value())
	}
	return m, cmd
}

func (m *Model) openDialog() tea.Cmd {
	m.dialog.Open()
	m.amount.Reset()
	m.note.Reset()
	m.amount.Placeholder = "Amount"
	if m.account != nil {
		m.amount.Placeholder = "Max: " + format.FormatBalance(m.account.Balance)
	}
	m.duration = 0
	for i, d := range coinlock.Durations {
		if d.Key == coinlock.DefaultDurationKey {
			m.duration = i
		}
	}
	return m.setFocus(fieldAmount)
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.focus = field
	m.amount.Blur()
	m.note.Blur()
	switch field {
	case fieldAmount:
		return m.amount.Focus()
	case fieldNote:
		return m.note.Focus()
	}
	return nil
}

func (m *Model) blurInputs() {
	m.amount.Blur()
	m.note.Blur()
}

// submit moves the dialog to submitting and returns the lock command, or
// surfaces the validation error as a notification.
func (m *Model) submit() tea.Cmd {
	sub, err := m.dialog.Begin(m.account)
	if err != nil {
		return tea.Batch(m.flush()...)
	}
	src, timeout := m.src, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := src.Lock(ctx, sub.LockRequest)
		return lockDoneMsg{sub: sub, res: res, err: err}
	}
}

func (m *Model) withdrawSelected() tea.Cmd {
	row, ok := m.selected()
	if !ok || m.pending[row.ID] {
		return nil
	}
	if !row.CanWithdraw() {
		m.inbox = append(m.inbox, coinlock.WithdrawNotification(nil,
			errors.New("lock matures at "+row.Range.End)))
		return tea.Batch(m.flush()...)
	}
	m.pending[row.ID] = true

	table, timeout, id := m.table, m.timeout, row.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := table.Withdraw(ctx, id)
		return withdrawDoneMsg{id: id, res: res, err: err}
	}
}

func (m *Model) refresh() tea.Cmd {
	table, timeout := m.table, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		table.Refresh(ctx)
		return refreshedMsg{}
	}
}

func (m *Model) tick() tea.Cmd {
	if m.refreshEvery <= 0 {
		return nil
	}
	return tea.Tick(m.refreshEvery, func(time.Time) tea.Msg { return tickMsg{} })
}

// flush turns queued notifications into toasts, each with its expiry.
func (m *Model) flush() []tea.Cmd {
	var cmds []tea.Cmd
	for _, n := range m.inbox {
		m.nextToast++
		id := m.nextToast
		m.toasts = append(m.toasts, toast{id: id, Notification: n})
		cmds = append(cmds, tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		}))
	}
	m.inbox = m.inbox[:0]
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return cmds
}

// outcomeLevel logs mistakes the user can correct quietly and chain or
// wallet failures as warnings.
func outcomeLevel(err error) zerolog.Level {
	switch {
	case err == nil:
		return zerolog.InfoLevel
	case coinlock.IsUserError(err):
		return zerolog.DebugLevel
	default:
		return zerolog.WarnLevel
	}
}

func (m *Model) selected() (coinlock.Position, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return coinlock.Position{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
