// Package kv defines the small key-value store the migration ledger
// persists to, with an in-memory implementation.  Disk-backed stores
// live in kv/filestore and kv/bdgr.
package kv

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get for a key that has no value.
var ErrNotFound = errors.New("key not found")

// Store is a key-value store.  Values are opaque bytes.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, val []byte) error
	Delete(key string) error
	Close() error
}

// Memory is a Store held in a map.
type Memory struct {
	mu   sync.Mutex
	vals map[string][]byte
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{vals: map[string][]byte{}}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.vals[key]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s", key)
	}
	return append([]byte(nil), val...), nil
}

func (m *Memory) Put(key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = append([]byte(nil), val...)
	return nil
}

// Delete removes key.  Deleting a missing key is not an error.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vals, key)
	return nil
}

func (m *Memory) Close() error { return nil }
