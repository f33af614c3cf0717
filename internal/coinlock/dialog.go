package coinlock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Klingon-tech/coinlock/internal/format"
)

// DialogState is the state of the lock dialog.
type DialogState int

const (
	DialogClosed DialogState = iota
	DialogEditing
	DialogSubmitting
)

func (s DialogState) String() string {
	switch s {
	case DialogClosed:
		return "closed"
	case DialogEditing:
		return "editing"
	case DialogSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("DialogState(%d)", int(s))
	}
}

// NotificationKind distinguishes success and error notifications.
type NotificationKind int

const (
	NotifySuccess NotificationKind = iota
	NotifyError
)

// Notification is a transient message for the user.
type Notification struct {
	Kind    NotificationKind
	Title   string
	Message string
}

// Notification titles.
const (
	TitleLocked         = "Coin locked successfully"
	TitleLockFailed     = "Failed to lock coin"
	TitleWithdrawn      = "Coin withdrawn successfully"
	TitleWithdrawFailed = "Failed to withdraw coin"
)

// Locker submits lock requests. *Service implements it.
type Locker interface {
	Lock(ctx context.Context, req LockRequest) (*Result, error)
}

// ErrDialogBusy is returned when a submission is already in flight.
var ErrDialogBusy = errors.New("lock already submitting")

// Dialog is the lock dialog state machine:
//
//	closed → editing → submitting → closed     (success)
//	                              → editing    (failure, notification)
//
// Input fields are only read while editing.
type Dialog struct {
	locker    Locker
	notify    func(Notification)
	onSuccess func()

	mu       sync.Mutex
	state    DialogState
	gen      uint64 // bumped by Open and Close
	amount   string
	duration string
	note     string
}

// NewDialog creates a closed dialog. notify receives every notification
// and onSuccess runs after a successful lock; either may be nil.
func NewDialog(locker Locker, notify func(Notification), onSuccess func()) *Dialog {
	if notify == nil {
		notify = func(Notification) {}
	}
	if onSuccess == nil {
		onSuccess = func() {}
	}
	return &Dialog{locker: locker, notify: notify, onSuccess: onSuccess}
}

// Open starts editing with empty fields and the default duration.
func (d *Dialog) Open() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == DialogSubmitting {
		return
	}
	d.gen++
	d.state = DialogEditing
	d.amount, d.duration, d.note = "", DefaultDurationKey, ""
}

// Close dismisses the dialog and abandons its input. A submission in
// flight is not cancelled; its notification still arrives.
func (d *Dialog) Close() {
	d.mu.Lock()
	d.gen++
	d.state = DialogClosed
	d.mu.Unlock()
}

// State returns the current state.
func (d *Dialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// SetAmount sets the amount field (decimal SUI).
func (d *Dialog) SetAmount(s string) { d.set(&d.amount, s) }

// SetDuration sets the duration option key.
func (d *Dialog) SetDuration(key string) { d.set(&d.duration, key) }

// SetNote sets the optional note.
func (d *Dialog) SetNote(s string) { d.set(&d.note, s) }

func (d *Dialog) set(field *string, v string) {
	d.mu.Lock()
	if d.state == DialogEditing {
		*field = v
	}
	d.mu.Unlock()
}

// Fields returns the current input.
func (d *Dialog) Fields() (amount, duration, note string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.amount, d.duration, d.note
}

// Validate checks the input against account in order: wallet connected,
// amount present and valid, duration selected, amount below the balance.
func (d *Dialog) Validate(account *Account) (LockRequest, error) {
	d.mu.Lock()
	amount, duration, note := d.amount, d.duration, d.note
	d.mu.Unlock()
	return validateLock(account, amount, duration, note)
}

func validateLock(account *Account, amount, duration, note string) (LockRequest, error) {
	if account == nil {
		return LockRequest{}, ErrWalletNotConnected
	}
	if strings.TrimSpace(amount) == "" {
		return LockRequest{}, ErrAmountRequired
	}
	mist, err := format.ParseAmount(amount)
	if err != nil {
		if errors.Is(err, format.ErrEmptyAmount) {
			return LockRequest{}, ErrAmountRequired
		}
		return LockRequest{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if duration == "" {
		return LockRequest{}, ErrDurationRequired
	}
	opt, err := ParseDuration(duration)
	if err != nil {
		return LockRequest{}, err
	}
	if mist >= account.Balance {
		return LockRequest{}, ErrInsufficientBalance
	}
	return LockRequest{Amount: mist, DurationMs: opt.Ms, Note: note}, nil
}

// Submission is a lock started by Begin, handed back to Finish.
type Submission struct {
	LockRequest
	gen uint64
}

// Begin validates the input and moves to submitting. On a validation error
// an error notification is sent and the dialog stays in editing.
func (d *Dialog) Begin(account *Account) (Submission, error) {
	d.mu.Lock()
	if d.state != DialogEditing {
		st := d.state
		d.mu.Unlock()
		if st == DialogSubmitting {
			return Submission{}, ErrDialogBusy
		}
		return Submission{}, fmt.Errorf("lock dialog is %s", st)
	}
	req, err := validateLock(account, d.amount, d.duration, d.note)
	if err == nil {
		d.state = DialogSubmitting
	}
	gen := d.gen
	d.mu.Unlock()

	if err != nil {
		d.notify(Notification{Kind: NotifyError, Title: TitleLockFailed, Message: err.Error()})
		return Submission{}, err
	}
	return Submission{LockRequest: req, gen: gen}, nil
}

// Finish applies the outcome of sub. Notifications are always sent; the
// dialog state only changes if it was not closed or reopened since Begin.
func (d *Dialog) Finish(sub Submission, res *Result, err error) {
	d.mu.Lock()
	current := sub.gen == d.gen && d.state == DialogSubmitting
	if err != nil {
		if current {
			d.state = DialogEditing
		}
		d.mu.Unlock()
		d.notify(Notification{Kind: NotifyError, Title: TitleLockFailed, Message: errorMessage(err)})
		return
	}
	if current {
		d.state = DialogClosed
		d.amount, d.note = "", ""
	}
	d.mu.Unlock()

	msg := ""
	if res != nil {
		msg = res.Digest
	}
	d.notify(Notification{Kind: NotifySuccess, Title: TitleLocked, Message: msg})
	d.onSuccess()
}

// Submit runs Begin, the lock and Finish synchronously.
func (d *Dialog) Submit(ctx context.Context, account *Account) error {
	sub, err := d.Begin(account)
	if err != nil {
		return err
	}
	res, err := d.locker.Lock(ctx, sub.LockRequest)
	d.Finish(sub, res, err)
	return err
}

// WithdrawNotification builds the notification for a withdraw outcome.
func WithdrawNotification(res *Result, err error) Notification {
	if err != nil {
		return Notification{Kind: NotifyError, Title: TitleWithdrawFailed, Message: errorMessage(err)}
	}
	msg := ""
	if res != nil {
		msg = res.Digest
	}
	return Notification{Kind: NotifySuccess, Title: TitleWithdrawn, Message: msg}
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "An unknown error occurred"
}
