package models

import (
	"fmt"
	"time"
)

// Session binds an opaque bearer token to a user until it expires.
type Session struct {
	token     string
	userID    string
	expiresAt time.Time
	createdAt time.Time
}

// NewSession creates a session for userID that expires after ttl.
func NewSession(token, userID string, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{token: token, userID: userID, createdAt: now, expiresAt: now.Add(ttl)}
}

// RestoreSession rebuilds a persisted session.
func RestoreSession(token, userID string, createdAt, expiresAt time.Time) *Session {
	return &Session{token: token, userID: userID, createdAt: createdAt, expiresAt: expiresAt}
}

func (s *Session) ID() string           { return s.token }
func (s *Session) Token() string        { return s.token }
func (s *Session) UserID() string       { return s.userID }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.createdAt }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.expiresAt)
}

func (s *Session) Validate() error {
	if s.token == "" {
		return fmt.Errorf("session token is required")
	}
	if s.userID == "" {
		return fmt.Errorf("session user is required")
	}
	if !s.expiresAt.After(s.createdAt) {
		return fmt.Errorf("session must expire after creation")
	}
	return nil
}
