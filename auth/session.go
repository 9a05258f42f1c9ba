package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore tracks live login sessions. A token is only honoured while
// its session exists.
type SessionStore interface {
	Create(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (userID int64, ok bool, err error)
	Revoke(ctx context.Context, sessionID string) error
	// RevokeUser ends every session belonging to userID.
	RevokeUser(ctx context.Context, userID int64) error
}

func NewSessionID() string {
	return uuid.NewString()
}

type memorySession struct {
	userID  int64
	expires time.Time
}

// MemorySessions keeps sessions in process memory. Sessions are lost on
// restart, which logs everybody out.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]memorySession), now: time.Now}
}

func (m *MemorySessions) Create(_ context.Context, sessionID string, userID int64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = memorySession{userID: userID, expires: m.now().Add(ttl)}
	return nil
}

func (m *MemorySessions) Lookup(_ context.Context, sessionID string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return 0, false, nil
	}
	if !m.now().Before(s.expires) {
		delete(m.sessions, sessionID)
		return 0, false, nil
	}
	return s.userID, true, nil
}

func (m *MemorySessions) Revoke(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *MemorySessions) RevokeUser(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sid, s := range m.sessions {
		if s.userID == userID {
			delete(m.sessions, sid)
		}
	}
	return nil
}
