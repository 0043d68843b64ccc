package store

import (
	"sync"

	"github.com/wutway/helpdesk/internal/domain"
)

// MemoryStore is an in-process Store for tests and ephemeral runs. It
// honors the same absence semantics as the durable implementation.
type MemoryStore struct {
	mu       sync.Mutex
	sessions []domain.Session
	current  string
	hasData  bool
	hasCur   bool

	// FailWrites drops every Save, mimicking a full or broken medium.
	FailWrites bool
	// SaveCalls counts Save invocations, including dropped ones.
	SaveCalls int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() ([]domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasData || len(m.sessions) == 0 {
		return nil, false
	}
	out := make([]domain.Session, len(m.sessions))
	copy(out, m.sessions)
	return out, true
}

func (m *MemoryStore) Save(sessions []domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.FailWrites {
		return
	}
	m.sessions = make([]domain.Session, len(sessions))
	copy(m.sessions, sessions)
	m.hasData = true
}

func (m *MemoryStore) LoadCurrentID() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasCur {
		return "", false
	}
	return m.current, true
}

func (m *MemoryStore) SaveCurrentID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return
	}
	m.current = id
	m.hasCur = true
}

func (m *MemoryStore) Close() error {
	return nil
}

// Seed pre-populates the store, as if a previous run had persisted state.
func (m *MemoryStore) Seed(sessions []domain.Session, currentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make([]domain.Session, len(sessions))
	copy(m.sessions, sessions)
	m.hasData = true
	if currentID != "" {
		m.current = currentID
		m.hasCur = true
	}
}
