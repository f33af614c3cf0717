// Package history journals the lock and withdraw transactions submitted
// from this machine. The chain stays authoritative; the journal only lets
// users see what they sent and why it failed.
package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Klingon-tech/coinlock/internal/log"
	"github.com/Klingon-tech/coinlock/internal/storage"
)

// ErrNotFound is returned by Get for an unknown digest.
var ErrNotFound = errors.New("transaction not in history")

// Kind is the kind of a journaled transaction.
type Kind string

const (
	KindLock     Kind = "lock"
	KindWithdraw Kind = "withdraw"
)

// Status is the outcome of a journaled transaction.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	// StatusUnknown marks submissions whose response never arrived.
	StatusUnknown Status = "unknown"
)

// Entry is one journaled transaction.
type Entry struct {
	Digest     string    `json:"digest"`
	Kind       Kind      `json:"kind"`
	Sender     string    `json:"sender"`
	Amount     uint64    `json:"amount,omitempty"`      // MIST
	DurationMs uint64    `json:"duration_ms,omitempty"` // lock duration
	Note       string    `json:"note,omitempty"`
	LockID     string    `json:"lock_id,omitempty"`
	Status     Status    `json:"status"`
	Error      string    `json:"error,omitempty"`
	GasUsed    uint64    `json:"gas_used,omitempty"`
	Time       time.Time `json:"time"`
}

var (
	entryPrefix  = []byte("e/")
	digestPrefix = []byte("d/")
)

// Journal stores entries ordered by time with a digest index.
type Journal struct {
	db      storage.DB
	entries *storage.Bucket
	digests *storage.Bucket
	owned   bool
}

// Open opens the Badger-backed journal in dir.
func Open(dir string) (*Journal, error) {
	db, err := storage.NewBadger(dir)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	j := New(db)
	j.owned = true
	return j, nil
}

// New creates a journal on an existing store. Close does not close db.
func New(db storage.DB) *Journal {
	return &Journal{
		db:      db,
		entries: storage.NewBucket(db, entryPrefix),
		digests: storage.NewBucket(db, digestPrefix),
	}
}

// entryKey orders entries by time; the digest breaks ties.
func entryKey(e *Entry) []byte {
	k := make([]byte, 8, 8+len(e.Digest))
	binary.BigEndian.PutUint64(k, uint64(e.Time.UnixNano()))
	return append(k, e.Digest...)
}

// Record stores e. Recording a digest again replaces the earlier entry, so
// a pending submission can be updated with its outcome.
func (j *Journal) Record(e Entry) error {
	if e.Digest == "" {
		return fmt.Errorf("history entry has no digest")
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.Time = e.Time.UTC()
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	// The entry and its index entry change together.
	err = j.db.Update(func(tx storage.Tx) error {
		entries, digests := j.entries.In(tx), j.digests.In(tx)
		old, err := digests.Get([]byte(e.Digest))
		switch {
		case err == nil:
			if err := entries.Delete(old); err != nil {
				return err
			}
		case !errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("read history index: %w", err)
		}
		key := entryKey(&e)
		if err := entries.Set(key, data); err != nil {
			return err
		}
		return digests.Set([]byte(e.Digest), key)
	})
	if err != nil {
		return fmt.Errorf("write history entry: %w", err)
	}

	log.Storage.Debug().
		Str("digest", e.Digest).
		Str("kind", string(e.Kind)).
		Str("status", string(e.Status)).
		Msg("history recorded")
	return nil
}

// Get returns the entry for a digest.
func (j *Journal) Get(digest string) (*Entry, error) {
	key, err := j.digests.Get([]byte(digest))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, digest)
	}
	if err != nil {
		return nil, err
	}
	data, err := j.entries.Get(key)
	if err != nil {
		return nil, fmt.Errorf("read history entry: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode history entry: %w", err)
	}
	return &e, nil
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (j *Journal) List(limit int) ([]Entry, error) {
	var out []Entry
	err := j.entries.Scan(nil, true, func(key, value []byte) error {
		var e Entry
		if err := json.Unmarshal(value, &e); err != nil {
			log.Storage.Warn().Err(err).Hex("key", key).Msg("skipping corrupt history entry")
			return nil
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			return storage.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return out, nil
}

// Clear removes every entry.
func (j *Journal) Clear() error {
	if err := j.entries.Clear(); err != nil {
		return err
	}
	return j.digests.Clear()
}

// Close closes the underlying store when the journal opened it.
func (j *Journal) Close() error {
	if j.owned {
		return j.db.Close()
	}
	return nil
}
