package portal

import (
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/eastridge-analytics/disclosure-desk/internal/workflow"
)

// SessionStore keeps live sessions keyed by opaque token. It is the calling
// layer's side of the workflow contract: transitions operate on explicit
// Session values, and the store holds them between requests. In-memory only —
// sessions die with the process.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*workflow.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*workflow.Session),
	}
}

func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Put stores a session under a fresh token and returns the token.
func (s *SessionStore) Put(sess *workflow.Session) string {
	token := generateToken()
	s.mu.Lock()
	s.sessions[token] = sess
	s.mu.Unlock()
	return token
}

// Get returns the session for a token, or nil when unknown.
func (s *SessionStore) Get(token string) *workflow.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[token]
}
