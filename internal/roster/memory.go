package roster

import (
	"context"
	"sync"
	"time"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
)

// Memory is an in-process session roster for single-instance deployments and
// tests. Each session keeps insertion order plus an email set; idle sessions
// are swept after the TTL.
type Memory struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*memorySession
}

type memorySession struct {
	records    []attendance.Record
	emails     map[string]struct{}
	lastAccess time.Time
}

// NewMemory creates a memory roster with the given session TTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Memory{
		ttl:      ttl,
		sessions: make(map[string]*memorySession),
	}
}

// Start launches the background sweep of expired sessions. Non-blocking.
func (m *Memory) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.ttl / 4)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.sweep(time.Now())
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *Memory) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := now.Add(-m.ttl)
	for id, s := range m.sessions {
		if s.lastAccess.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}

func (m *Memory) session(id string) *memorySession {
	s, ok := m.sessions[id]
	if !ok {
		s = &memorySession{emails: make(map[string]struct{})}
		m.sessions[id] = s
	}
	s.lastAccess = time.Now()
	return s
}

// Append commits a record, enforcing email uniqueness atomically.
func (m *Memory) Append(_ context.Context, sessionID string, rec attendance.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session(sessionID)
	if _, dup := s.emails[rec.Email]; dup {
		return attendance.ErrDuplicate
	}
	s.emails[rec.Email] = struct{}{}
	s.records = append(s.records, rec)
	return nil
}

// Contains reports whether the session already holds the email. Exact,
// case-sensitive match.
func (m *Memory) Contains(_ context.Context, sessionID, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.session(sessionID).emails[email]
	return ok, nil
}

// List returns the session's records in insertion order.
func (m *Memory) List(_ context.Context, sessionID string) ([]attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session(sessionID)
	out := make([]attendance.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}
