// Package session holds the signed-in player's auth state. A Session is
// created at sign-in and closed at sign-out; nothing about it is global.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSignedOut    = errors.New("session: signed out")
	ErrInvalidToken = errors.New("session: invalid access token")
)

// Claims is the subset of the backend's access token we read. The
// signature is verified by the backend on every call, not here.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Session struct {
	mu     sync.RWMutex
	token  string
	claims Claims
	closed bool
	onEnd  []func()
}

// New parses accessToken and starts a session for its subject.
func New(accessToken string) (*Session, error) {
	c, err := parseClaims(accessToken)
	if err != nil {
		return nil, err
	}
	return &Session{token: accessToken, claims: c}, nil
}

func parseClaims(accessToken string) (Claims, error) {
	var c Claims
	_, _, err := jwt.NewParser().ParseUnverified(accessToken, &c)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return c, nil
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims.Subject
}

func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims.Email
}

// ExpiresAt is the zero time when the token carries no exp claim.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims.ExpiresAt == nil {
		return time.Time{}
	}
	return s.claims.ExpiresAt.Time
}

func (s *Session) Expired(now time.Time) bool {
	exp := s.ExpiresAt()
	return !exp.IsZero() && !now.Before(exp)
}

// AccessToken implements gateway.TokenSource.
func (s *Session) AccessToken(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrSignedOut
	}
	return s.token, nil
}

// OnClose registers fn to run once when the session closes. Containers
// scoped to the session use it to tear themselves down.
func (s *Session) OnClose(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.onEnd = append(s.onEnd, fn)
	s.mu.Unlock()
}

// Close signs out. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.token = ""
	fns := s.onEnd
	s.onEnd = nil
	s.mu.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
