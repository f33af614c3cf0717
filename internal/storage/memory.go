package storage

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"sync"
)

// MemoryDB is a DB held in a map, used by tests. It is safe for
// concurrent use; updates are serialized.
type MemoryDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty MemoryDB.
func NewMemory() *MemoryDB {
	return &MemoryDB{data: make(map[string][]byte)}
}

func (m *MemoryDB) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (m *MemoryDB) Put(key, value []byte) error {
	return m.Update(func(tx Tx) error { return tx.Set(key, value) })
}

func (m *MemoryDB) Delete(key []byte) error {
	return m.Update(func(tx Tx) error { return tx.Delete(key) })
}

// Scan snapshots the matching keys first, so fn may write to the store.
func (m *MemoryDB) Scan(prefix []byte, reverse bool, fn func(key, value []byte) error) error {
	p := string(prefix)
	m.mu.RLock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	vals := make(map[string][]byte, len(keys))
	for _, k := range keys {
		vals[k] = bytes.Clone(m.data[k])
	}
	m.mu.RUnlock()

	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	} else {
		sort.Strings(keys)
	}
	for _, k := range keys {
		if err := fn([]byte(k), vals[k]); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
	return nil
}

func (m *MemoryDB) Update(fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memoryTx{db: m, pending: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	for k, v := range tx.pending {
		if v == nil {
			delete(m.data, k)
		} else {
			m.data[k] = v
		}
	}
	return nil
}

func (m *MemoryDB) Close() error {
	return nil
}

// memoryTx buffers writes until Update commits. A nil value marks a delete.
type memoryTx struct {
	db      *MemoryDB
	pending map[string][]byte
}

func (t *memoryTx) Get(key []byte) ([]byte, error) {
	v, ok := t.pending[string(key)]
	if !ok {
		v, ok = t.db.data[string(key)]
	}
	if !ok || v == nil {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (t *memoryTx) Set(key, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	t.pending[string(key)] = v
	return nil
}

func (t *memoryTx) Delete(key []byte) error {
	t.pending[string(key)] = nil
	return nil
}
