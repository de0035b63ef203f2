// Package session issues the signed cookie that marks a participant as
// logged in at the doorway.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is where the session token travels.
const CookieName = "session"

var ErrNoSession = errors.New("no valid session")

// Manager signs and parses HS256 session tokens carrying the username as
// the subject.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Secret is the signing key, shared with the fiber JWT middleware.
func (m *Manager) Secret() []byte { return m.secret }

func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue returns a signed token for username and its expiry.
func (m *Manager) Issue(username string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return token, exp, nil
}

// Parse validates raw and returns the username it was issued for.
func (m *Manager) Parse(raw string) (string, error) {
	if raw == "" {
		return "", ErrNoSession
	}
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	return Username(token)
}

// Username extracts the subject from a token the middleware already
// validated.
func Username(token *jwt.Token) (string, error) {
	if token == nil {
		return "", ErrNoSession
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrNoSession
	}
	return sub, nil
}
