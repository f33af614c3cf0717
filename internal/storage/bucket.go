package storage

import "bytes"

// Bucket is a key namespace inside a DB. Callers use logical keys; the
// bucket prefix is added on the way in and stripped on the way out.
type Bucket struct {
	db     DB
	prefix []byte
}

// NewBucket returns the namespace of db under prefix.
func NewBucket(db DB, prefix []byte) *Bucket {
	return &Bucket{db: db, prefix: bytes.Clone(prefix)}
}

func (b *Bucket) key(k []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(k))
	return append(append(out, b.prefix...), k...)
}

func (b *Bucket) Get(key []byte) ([]byte, error) {
	return b.db.Get(b.key(key))
}

func (b *Bucket) Put(key, value []byte) error {
	return b.db.Put(b.key(key), value)
}

func (b *Bucket) Delete(key []byte) error {
	return b.db.Delete(b.key(key))
}

// Scan walks logical keys starting with prefix.
func (b *Bucket) Scan(prefix []byte, reverse bool, fn func(key, value []byte) error) error {
	n := len(b.prefix)
	return b.db.Scan(b.key(prefix), reverse, func(key, value []byte) error {
		return fn(key[n:], value)
	})
}

// In returns a view of tx restricted to the bucket, so one Update can
// write to several buckets.
func (b *Bucket) In(tx Tx) Tx {
	return bucketTx{b: b, tx: tx}
}

// Clear deletes every key in the bucket in one update.
func (b *Bucket) Clear() error {
	var keys [][]byte
	err := b.db.Scan(b.prefix, false, func(key, _ []byte) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil || len(keys) == 0 {
		return err
	}
	return b.db.Update(func(tx Tx) error {
		for _, k := range keys {
			if err := tx.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

type bucketTx struct {
	b  *Bucket
	tx Tx
}

func (t bucketTx) Get(key []byte) ([]byte, error) { return t.tx.Get(t.b.key(key)) }
func (t bucketTx) Set(key, value []byte) error    { return t.tx.Set(t.b.key(key), value) }
func (t bucketTx) Delete(key []byte) error        { return t.tx.Delete(t.b.key(key)) }
