package session

import (
	"sync"
	"time"

	"github.com/quillhq/quill-be/internal/models"
)

// MemoryStore keeps sessions in process memory. Suitable for a single
// node; sessions are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]models.Session)}
}

// Save stores the session under its token.
func (m *MemoryStore) Save(s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

// Get returns the session for token, if present.
func (m *MemoryStore) Get(token string) (models.Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	return s, ok, nil
}

// Delete removes the session for token; absent tokens are a no-op.
func (m *MemoryStore) Delete(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// DeleteExpired removes sessions that expired before now.
func (m *MemoryStore) DeleteExpired(now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed, nil
}
