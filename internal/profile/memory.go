package profile

import (
	"context"
	"sync"
)

// MemoryStorage keeps profiles in process memory. Used when no
// DATABASE_URL is configured, and in tests. Reads never block writes
// for other participants; each Load returns a deep copy.
type MemoryStorage struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{profiles: make(map[string]*Profile)}
}

func (m *MemoryStorage) Load(_ context.Context, participantID string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[participantID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (m *MemoryStorage) Save(_ context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ParticipantID] = p.Clone()
	return nil
}
