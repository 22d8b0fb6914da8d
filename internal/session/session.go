// Package session holds the single active session: the authenticated user,
// the bearer token and the theme/language preference. It is an explicit
// object passed to the components that need it, initialized at login and
// cleared at logout or token invalidation. There are no ambient statics.
package session

import (
	"sync"
	"time"

	"gestiogastos/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the process-wide identity and preference holder.
type Session struct {
	mu       sync.RWMutex
	user     *model.User
	token    string
	theme    string
	language string
}

// New returns an unauthenticated session with the given preference defaults.
func New(theme, language string) *Session {
	return &Session{theme: theme, language: language}
}

// Start installs the authenticated user and bearer token.
func (s *Session) Start(user model.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	s.token = token
}

// SetToken installs a bearer token before the user identity is known, i.e.
// between /auth/login and /auth/me.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear drops the user and token. Preferences survive: theme and language
// are not identity.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
}

// Authenticated reports whether a token is held. Absence of a token means
// the caller must re-authenticate before any protected call.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user and whether one is set.
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// SetUser replaces the current user, keeping the token. Used when /auth/me
// or a pending-amount refresh returns updated identity data.
func (s *Session) SetUser(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
}

// Theme returns the current theme preference.
func (s *Session) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme updates the theme preference.
func (s *Session) SetTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
}

// Language returns the current language preference.
func (s *Session) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetLanguage updates the language preference.
func (s *Session) SetLanguage(language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = language
}

// TokenExpired reports whether the held token carries an exp claim in the
// past. The signature is not verified here: the server is authoritative and
// will reject a bad token anyway; this only lets callers pre-empt a call
// that is guaranteed to 401. A missing or unparsable token counts as
// expired.
func (s *Session) TokenExpired(now time.Time) bool {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		// No exp claim: treat the token as non-expiring.
		return false
	}
	return exp.Time.Before(now)
}
