package store

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/aqi-predictor/schema"
)

type memoryStore struct {
	sync.Mutex
	ttl      time.Duration
	sessions map[string]schema.Session
	now      func() time.Time
}

// NewMemoryStore returns a process local session store. Expired sessions are
// dropped on read and swept on every write.
func NewMemoryStore(ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &memoryStore{
		ttl:      ttl,
		sessions: make(map[string]schema.Session),
		now:      time.Now,
	}
}

func (m *memoryStore) Get(_ context.Context, id string) (*schema.Session, error) {
	m.Lock()
	defer m.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.Expired(m.now()) {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *memoryStore) Put(_ context.Context, session *schema.Session) error {
	m.Lock()
	defer m.Unlock()

	now := m.now()
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
		}
	}

	s := *session
	s.ExpiresAt = now.Add(m.ttl)
	m.sessions[s.ID] = s
	session.ExpiresAt = s.ExpiresAt
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.Lock()
	defer m.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *memoryStore) Ping(context.Context) error {
	return nil
}

func (m *memoryStore) Close(context.Context) error {
	m.Lock()
	defer m.Unlock()

	m.sessions = make(map[string]schema.Session)
	return nil
}
