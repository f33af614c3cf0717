// Package storage provides the key-value stores behind the local
// transaction history.
package storage

import "errors"

var (
	// ErrNotFound is returned by Get for a missing key.
	ErrNotFound = errors.New("key not found")

	// ErrStop ends a Scan early without failing it.
	ErrStop = errors.New("stop scan")
)

// Tx reads and writes inside an Update. Writes become visible to other
// readers only when the update commits.
type Tx interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
}

// DB is an ordered key-value store.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error

	// Scan calls fn for each key under prefix, ascending or, with reverse,
	// descending. fn receives copies. Returning ErrStop ends the scan with
	// a nil error; any other error is returned as is.
	Scan(prefix []byte, reverse bool, fn func(key, value []byte) error) error

	// Update runs fn in a transaction and commits when fn returns nil.
	// fn must only touch the store through tx.
	Update(fn func(tx Tx) error) error

	Close() error
}
