package blob

import (
	"context"
	"sync"
)

// MemoryStore keeps documents in process memory. Contents do not survive a
// restart; use it for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[int64][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[int64][]byte)}
}

// Put stores a copy of data so later mutation by the caller has no effect.
func (m *MemoryStore) Put(_ context.Context, appointmentID int64, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[appointmentID] = stored
	return nil
}

// Get returns a copy of the stored bytes.
func (m *MemoryStore) Get(_ context.Context, appointmentID int64) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[appointmentID]
	if !ok {
		return nil, ErrNotFound
	}
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}
