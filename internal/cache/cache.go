// Package cache holds the on-device mirror of the user's data: a small set of
// string slots (habits blob, completions blob, user blob, theme mode) behind a
// pluggable key/value backend.
package cache

import (
	"context"
	"sort"
	"sync"

	apperrors "github.com/julianstephens/streakline/internal/errors"
)

// Store is a durable string key/value store. Get returns an error matching
// errors.ErrNotFound when the key has never been written.
type Store interface {
	// Init prepares the backend (directories, schema, connectivity).
	Init(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
	// Describe returns a human readable location for diagnostics.
	Describe() string
}

// Versioned is implemented by backends whose layout is managed by migrations.
type Versioned interface {
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}

// Memory is an in-process Store, used by tests and when no cache is configured.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Init(context.Context) error { return nil }

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Describe() string { return "memory" }

// Keys lists the stored keys in order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
