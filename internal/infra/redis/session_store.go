package redis

import (
	"context"
	"sync"
	"time"

	"capitals-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Session aggregates stay in a local in-process map; at most one server
//     instance owns a session for its whole lifetime.
//   - Redis only marks session liveness, which gives operators visibility
//     into open sessions and could later back a cross-instance router.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(sessionID string, session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(sessionID), "1", s.ttl).Err()
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
