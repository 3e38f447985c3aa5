package auth

import (
	"strings"
	"sync"

	"thinky/config"
)

// FallbackName is shown when nobody is signed in.
const FallbackName = "friend"

const emailDomain = "thinky.app"

type User struct {
	Name  string
	Email string
}

// Session tracks the signed-in user. Safe for concurrent use.
type Session struct {
	verifier Verifier

	mu   sync.RWMutex
	user *User
}

func NewSession(v Verifier) *Session {
	return &Session{verifier: v}
}

// Login signs in username if the verifier accepts the password.
func (s *Session) Login(username, password string) bool {
	name := strings.TrimSpace(username)
	if name == "" || !s.verifier.Verify(name, password) {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Auth] login rejected for %q", name)
		}
		return false
	}

	s.mu.Lock()
	s.user = &User{Name: name, Email: name + "@" + emailDomain}
	s.mu.Unlock()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Auth] %s signed in", name)
	}
	return true
}

func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// User returns the signed-in user, if any.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Session) LoggedIn() bool {
	_, ok := s.User()
	return ok
}

// DisplayName is the signed-in name, or FallbackName.
func (s *Session) DisplayName() string {
	if u, ok := s.User(); ok {
		return u.Name
	}
	return FallbackName
}
