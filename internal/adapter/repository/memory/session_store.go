// Package memory holds process-local implementations of the usecase stores.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/infrastructure/metrics"
)

type entry struct {
	session   domain.Session
	expiresAt time.Time
}

// SessionStore implements usecase.SessionStore in process memory.
// Reads extend a session's lifetime; Sweep removes expired sessions.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
	metrics  *metrics.Metrics
}

// NewSessionStore creates a new SessionStore. m may be nil.
func NewSessionStore(ttl time.Duration, m *metrics.Metrics) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
		metrics:  m,
	}
}

// Get returns a copy of the session and extends its TTL.
func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	now := s.now()
	if !ok || !now.Before(e.expiresAt) {
		return nil, domain.ErrSessionNotFound
	}
	e.expiresAt = now.Add(s.ttl)

	session := e.session
	return &session, nil
}

// Save stores a copy of session, replacing any previous value.
func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = &entry{session: *session, expiresAt: s.now().Add(s.ttl)}
	s.updateGauge()
	return nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	s.updateGauge()
	return nil
}

// Sweep removes expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}

	s.updateGauge()
	if s.metrics != nil {
		s.metrics.SessionsExpired.Add(float64(removed))
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) updateGauge() {
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	}
}
