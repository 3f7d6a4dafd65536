// Package kv is the persistence adapter: an opaque record store with
// get/set/delete over named keys. No transactions, no versioning;
// last-write-wins. The exam layer keeps exactly two records in it,
// the test collection and the single active session.
package kv

import (
	"context"
	"sync"
)

// Store is injected into everything that persists state. A missing key
// reads as (nil, nil), not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{data: map[string][]byte{}}
}

func (m *MemStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *MemStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// NopStore is the "no persistence" degradation: every read is empty,
// every write a silent success. Used when the backing store is
// unavailable so the core keeps working on in-memory state alone.
type NopStore struct{}

func (NopStore) Get(context.Context, string) ([]byte, error) { return nil, nil }
func (NopStore) Set(context.Context, string, []byte) error   { return nil }
func (NopStore) Delete(context.Context, string) error        { return nil }
