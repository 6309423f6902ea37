package session

import (
	"context"
	"sync"
	"time"

	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/models"
)

// memoryStore is the default process-local Store implementation: a mutex-
// guarded map keyed by session id. Sessions do not survive a restart, which
// simply forces a re-login.
type memoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]models.Session
	idleTimeout time.Duration
	logger      *logger.Logger
}

// NewMemoryStore constructs an in-memory Store enforcing the given idle
// timeout on Load. A zero timeout disables idle eviction.
func NewMemoryStore(idleTimeout time.Duration, log *logger.Logger) Store {
	log.Debug().Dur("idle_timeout", idleTimeout).Msg("creating in-memory session store")
	return &memoryStore{
		sessions:    make(map[string]models.Session),
		idleTimeout: idleTimeout,
		logger:      log,
	}
}

func (s *memoryStore) Load(_ context.Context, sessionID string) (models.Session, error) {
	if sessionID == "" {
		return models.Session{}, ErrSessionNotFound
	}

	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return models.Session{}, ErrSessionNotFound
	}

	if s.expired(sess) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return models.Session{}, ErrSessionNotFound
	}

	return sess, nil
}

func (s *memoryStore) Save(_ context.Context, sess models.Session) error {
	if sess.SessionID == "" {
		return ErrEmptySessionID
	}

	s.mu.Lock()
	s.sessions[sess.SessionID] = sess
	s.mu.Unlock()

	return nil
}

func (s *memoryStore) Destroy(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	return nil
}

func (s *memoryStore) expired(sess models.Session) bool {
	if s.idleTimeout == 0 {
		return false
	}
	return time.Since(sess.LastSeenAt) > s.idleTimeout
}
