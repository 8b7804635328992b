package store

import (
	"bytes"
	"context"

	"github.com/dgraph-io/ristretto/v2"
)

// Memory is an in-process store backed by ristretto. Entries carry no TTL;
// freshness is owned by the caches layered on top.
type Memory struct {
	rc *ristretto.Cache[string, []byte]
}

// NewMemory creates a Memory store. maxCost controls the maximum cost the
// underlying cache can hold (each entry has a cost of 1).
func NewMemory(maxCost int64) (*Memory, error) {
	rc, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Memory{rc: rc}, nil
}

// Get retrieves a value by key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.rc.Get(key)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

// Set stores a value under key. The write is synchronous: a Get issued after
// Set returns observes the value.
func (m *Memory) Set(_ context.Context, key string, val []byte) error {
	m.rc.Set(key, bytes.Clone(val), 1)
	m.rc.Wait()
	return nil
}

// Remove deletes the entry for key.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.rc.Del(key)
	m.rc.Wait()
	return nil
}

// Close releases the underlying cache resources.
func (m *Memory) Close() {
	m.rc.Close()
}
