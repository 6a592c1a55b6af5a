package session

import (
	"context"
	"sync"
	"time"

	"agora/internal/models"
	"agora/internal/observability"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore returns an empty MemoryStore. A zero ttl never expires sessions.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Create(_ context.Context, user models.User) (Session, error) {
	s, err := newSession(user, m.ttl, m.now())
	if err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	m.sessions[s.Token] = s
	n := len(m.sessions)
	m.mu.Unlock()

	observability.ActiveSessions.Set(float64(n))
	observability.SessionEvents.WithLabelValues("created").Inc()
	return s, nil
}

func (m *MemoryStore) Resolve(_ context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if s.Expired(m.now()) {
		m.mu.Lock()
		delete(m.sessions, token)
		n := len(m.sessions)
		m.mu.Unlock()
		observability.ActiveSessions.Set(float64(n))
		observability.SessionEvents.WithLabelValues("expired").Inc()
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryStore) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	_, ok := m.sessions[token]
	delete(m.sessions, token)
	n := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	observability.ActiveSessions.Set(float64(n))
	observability.SessionEvents.WithLabelValues("revoked").Inc()
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	now := m.now()

	m.mu.Lock()
	removed := 0
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
			removed++
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	observability.ActiveSessions.Set(float64(n))
	return removed
}

// Len returns the number of held sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
