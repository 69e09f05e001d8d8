package client

import (
	"sync"

	"github.com/jgirmay/attendance/pkg/models"
)

// Session is the caller's authenticated identity. It is filled by Login and
// Register, and emptied by Logout or by any 401 from the server. A Session
// is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *models.User
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Token returns the bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether the session holds a token.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Clear signs the session out.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

func (s *Session) set(resp *models.AuthResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = resp.Token
	s.user = resp.User
}

// SavedSession is a Session in a form that can be persisted between runs.
type SavedSession struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Save snapshots the session.
func (s *Session) Save() SavedSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SavedSession{Token: s.token, User: s.user}
}

// RestoreSession rebuilds a session from a snapshot.
func RestoreSession(saved SavedSession) *Session {
	return &Session{token: saved.Token, user: saved.User}
}
