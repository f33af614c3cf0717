package storage

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// ErrLocked is returned by NewBadger when another process holds the
// database directory.
var ErrLocked = errors.New("database is locked by another process")

// Journal keys never start with this many 0xff bytes, so prefix+seekPad
// sorts after every key under prefix.
var seekPad = bytes.Repeat([]byte{0xff}, 16)

// BadgerDB is the on-disk DB.
type BadgerDB struct {
	db *badger.DB
}

// NewBadger opens or creates a database in dir.
func NewBadger(dir string) (*BadgerDB, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(nil).
		WithValueThreshold(1 << 10).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	switch {
	case err == nil:
		return &BadgerDB{db: db}, nil
	case isDirLocked(err):
		return nil, fmt.Errorf("%w: %s (is another coinlock running?)", ErrLocked, dir)
	default:
		return nil, fmt.Errorf("open database at %s: %w", dir, err)
	}
}

func isDirLocked(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Cannot acquire directory lock") ||
		strings.Contains(msg, "resource temporarily unavailable")
}

func (b *BadgerDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		val, err = badgerTx{txn}.Get(key)
		return err
	})
	return val, err
}

func (b *BadgerDB) Put(key, value []byte) error {
	return b.Update(func(tx Tx) error { return tx.Set(key, value) })
}

func (b *BadgerDB) Delete(key []byte) error {
	return b.Update(func(tx Tx) error { return tx.Delete(key) })
}

// Update runs fn in a read-write Badger transaction. A conflict with a
// concurrent writer surfaces as badger.ErrConflict.
func (b *BadgerDB) Update(fn func(tx Tx) error) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return fn(badgerTx{txn})
	})
}

func (b *BadgerDB) Scan(prefix []byte, reverse bool, fn func(key, value []byte) error) error {
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = reverse
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := prefix
		if reverse {
			seek = append(append([]byte{}, prefix...), seekPad...)
		}
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(item.KeyCopy(nil), val); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

func (b *BadgerDB) Close() error {
	return b.db.Close()
}

type badgerTx struct {
	txn *badger.Txn
}

func (t badgerTx) Get(key []byte) ([]byte, error) {
	item, err := t.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return item.ValueCopy(nil)
}

// Badger keeps references to key and value until commit.
func (t badgerTx) Set(key, value []byte) error {
	return t.txn.Set(bytes.Clone(key), bytes.Clone(value))
}

func (t badgerTx) Delete(key []byte) error {
	return t.txn.Delete(bytes.Clone(key))
}
