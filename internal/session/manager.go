// Package session owns the in-memory session list and the current-session
// pointer, and mirrors every mutation into the persistent store.
package session

import (
	"sync"
	"time"

	"github.com/wutway/helpdesk/internal/domain"
	"github.com/wutway/helpdesk/internal/store"
)

// Manager coordinates multi-session chat history. The session list is kept
// newest-first. All mutations replace the affected session's message list
// wholesale; there are no partial in-place edits.
type Manager struct {
	mu       sync.Mutex
	store    store.Store
	sessions []domain.Session
	current  string
	greeting *domain.Message

	now   func() time.Time
	newID func(time.Time) string
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator injects the session id generator.
func WithIDGenerator(gen func(time.Time) string) Option {
	return func(m *Manager) { m.newID = gen }
}

// NewManager adopts the persisted session list when one exists, setting
// current to the newest entry (or the persisted pointer when it still
// resolves). With nothing valid persisted it creates a fresh session seeded
// with the optional greeting.
func NewManager(st store.Store, greeting *domain.Message, opts ...Option) *Manager {
	m := &Manager{
		store:    st,
		greeting: greeting,
		now:      time.Now,
		newID:    domain.NewSessionID,
	}
	for _, opt := range opts {
		opt(m)
	}

	if sessions, ok := st.Load(); ok {
		m.sessions = sessions
		m.current = sessions[0].ID
		if id, ok := st.LoadCurrentID(); ok && m.indexOf(id) >= 0 {
			m.current = id
		}
		return m
	}
	m.createLocked()
	return m
}

// CreateSession prepends a fresh session, makes it current, persists, and
// returns its id.
func (m *Manager) CreateSession() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked()
}

func (m *Manager) createLocked() string {
	now := m.now()
	s := domain.Session{
		ID:        m.newID(now),
		Title:     domain.DefaultTitle,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if m.greeting != nil {
		s.Messages = []domain.Message{*m.greeting}
	}
	m.sessions = append([]domain.Session{s}, m.sessions...)
	m.current = s.ID
	m.persistLocked()
	return s.ID
}

// UpdateCurrent replaces the current session's messages, re-derives its
// title, bumps updated_at, and persists.
func (m *Manager) UpdateCurrent(messages []domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(m.current)
	if i < 0 {
		return domain.ErrNoCurrentSession
	}
	m.sessions[i].Messages = messages
	m.sessions[i].Title = domain.DeriveTitle(messages)
	m.sessions[i].UpdatedAt = m.now()
	m.persistLocked()
	return nil
}

// SwitchCurrent moves the current pointer to a known session.
func (m *Manager) SwitchCurrent(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(id) < 0 {
		return domain.ErrSessionNotFound
	}
	m.current = id
	m.store.SaveCurrentID(id)
	return nil
}

// DeleteSession removes a session. Deleting the current one hands the
// pointer to the newest remaining session; deleting the last one creates a
// fresh replacement so the store is never left empty.
func (m *Manager) DeleteSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return domain.ErrSessionNotFound
	}
	m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
	if len(m.sessions) == 0 {
		m.createLocked()
		return nil
	}
	if m.current == id {
		m.current = m.sessions[0].ID
	}
	m.persistLocked()
	return nil
}

// CurrentMessages returns a copy of the current session's message list. The
// greeting fallback only fires if the pointer is somehow unresolvable,
// which should not happen after construction.
func (m *Manager) CurrentMessages() []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(m.current)
	if i < 0 {
		if m.greeting != nil {
			return []domain.Message{*m.greeting}
		}
		return nil
	}
	out := make([]domain.Message, len(m.sessions[i].Messages))
	copy(out, m.sessions[i].Messages)
	return out
}

// AttachSuggestions sets the suggestion list on one specific message. A
// session or message that has since disappeared is reported as not found so
// the caller can drop the stale result.
func (m *Manager) AttachSuggestions(sessionID, messageID string, questions []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(sessionID)
	if i < 0 {
		return domain.ErrSessionNotFound
	}
	for j := range m.sessions[i].Messages {
		if m.sessions[i].Messages[j].MessageID != messageID {
			continue
		}
		m.sessions[i].Messages[j].Suggestions = questions
		m.sessions[i].UpdatedAt = m.now()
		m.persistLocked()
		return nil
	}
	return domain.ErrMessageNotFound
}

// Sessions returns a snapshot of all sessions, newest first.
func (m *Manager) Sessions() []domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// CurrentID returns the id of the current session.
func (m *Manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Manager) indexOf(id string) int {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) persistLocked() {
	m.store.Save(m.sessions)
	m.store.SaveCurrentID(m.current)
}
