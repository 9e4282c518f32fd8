package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/touchline/scoutbase/internal/domain/types"
	"github.com/touchline/scoutbase/pkg/metrics"
)

const (
	defaultSessionTTL = 12 * time.Hour
	sweepInterval     = time.Minute
)

// Identity is what a valid session resolves to.
type Identity struct {
	UserID string
	OrgID  string
	Role   types.Role
}

type session struct {
	identity  Identity
	expiresAt time.Time
}

// SessionStore tracks bearer tokens in memory. Expired sessions are swept in
// the background once Start is called, and rejected lazily before that.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session

	ttl time.Duration
	now func() time.Time
}

// SessionOption applies a configuration option to the SessionStore.
type SessionOption func(*SessionStore)

// WithTTL sets the session lifetime. Non-positive values keep the default.
func WithTTL(ttl time.Duration) SessionOption {
	return func(s *SessionStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessionStore creates an empty session store.
func NewSessionStore(opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]session),
		ttl:      defaultSessionTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the background sweep until ctx is cancelled.
func (s *SessionStore) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// Create issues a new token for the identity.
func (s *SessionStore) Create(id Identity) string {
	token := uuid.NewString()

	s.mu.Lock()
	s.sessions[token] = session{identity: id, expiresAt: s.now().Add(s.ttl)}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.UpdateActiveSessions(n)
	return token
}

// Resolve returns the identity behind a token, if the session is live.
func (s *SessionStore) Resolve(token string) (Identity, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok || s.now().After(sess.expiresAt) {
		return Identity{}, false
	}
	return sess.identity, true
}

// Revoke invalidates one token, e.g. on logout.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.UpdateActiveSessions(n)
}

// RevokeUser invalidates every session of one user, e.g. on deactivation.
func (s *SessionStore) RevokeUser(userID string) {
	s.mu.Lock()
	for token, sess := range s.sessions {
		if sess.identity.UserID == userID {
			delete(s.sessions, token)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.UpdateActiveSessions(n)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) sweep() {
	now := s.now()

	s.mu.Lock()
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.UpdateActiveSessions(n)
}
