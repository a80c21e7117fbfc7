// Package blob holds the key-value persistence the journal mirrors its state
// into. Values are opaque strings; callers own the encoding.
package blob

import (
	"context"
	"sync"
)

// Store is a synchronous key-value blob store.
type Store interface {
	// Get returns the value for key. ok is false when the key has never
	// been written.
	Get(key string) (value string, ok bool, err error)
	// Set overwrites the value for key.
	Set(key, value string) error
}

// Watcher is implemented by stores that can report changes made by other
// processes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Event is emitted by Watch when the value of Key changed on disk.
type Event struct {
	Key string
}

// Memory is an in-process Store. The zero value is ready to use.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	writes int
}

// NewMemory returns a Memory store seeded with the given values.
func NewMemory(seed map[string]string) *Memory {
	m := &Memory{values: make(map[string]string, len(seed))}
	for k, v := range seed {
		m.values[k] = v
	}
	return m
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	m.writes++
	return nil
}

// Writes counts the Set calls made so far.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
