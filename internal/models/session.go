package models

import (
	"fmt"
	"time"
)

var _ Model = (*Session)(nil)

// Session is a persisted sign-in record binding a user to their OAuth tokens.
//
// Lifecycle is bound to provider sign-in/out: created after a successful
// token exchange, deleted on sign-out. The access token is the sole
// credential forwarded to the capability client.
type Session struct {
	id           string
	userID       string
	email        string
	accessToken  string
	refreshToken string
	provider     string
	expiry       time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NewSession creates a Session for the given user and token pair.
func NewSession(userID, email, accessToken, refreshToken string, expiry time.Time) *Session {
	now := time.Now()
	return &Session{
		userID:       userID,
		email:        email,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		provider:     "google",
		expiry:       expiry,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (s *Session) ID() string            { return s.id }
func (s *Session) CreatedAt() time.Time  { return s.createdAt }
func (s *Session) UpdatedAt() time.Time  { return s.updatedAt }
func (s *Session) UserID() string        { return s.userID }
func (s *Session) Email() string         { return s.email }
func (s *Session) AccessToken() string   { return s.accessToken }
func (s *Session) RefreshToken() string  { return s.refreshToken }
func (s *Session) Provider() string      { return s.provider }
func (s *Session) Expiry() time.Time     { return s.expiry }

func (s *Session) SetID(id string)             { s.id = id }
func (s *Session) SetCreatedAt(t time.Time)    { s.createdAt = t }
func (s *Session) SetUpdatedAt(t time.Time)    { s.updatedAt = t }
func (s *Session) SetProvider(provider string) { s.provider = provider }
func (s *Session) SetExpiry(t time.Time)       { s.expiry = t }

// UpdateTokens replaces the token pair, e.g. after a refresh.
func (s *Session) UpdateTokens(accessToken, refreshToken string, expiry time.Time) {
	s.accessToken = accessToken
	if refreshToken != "" {
		s.refreshToken = refreshToken
	}
	s.expiry = expiry
	s.updatedAt = time.Now()
}

// Expired reports whether the access token expiry has passed.
// Sessions without a recorded expiry never report expired.
func (s *Session) Expired() bool {
	return !s.expiry.IsZero() && time.Now().After(s.expiry)
}

// Validate checks that the session carries the fields required to issue
// authenticated API calls.
func (s *Session) Validate() error {
	if s.userID == "" {
		return fmt.Errorf("session user_id is required")
	}
	if s.accessToken == "" {
		return fmt.Errorf("session access_token is required")
	}
	if s.provider == "" {
		return fmt.Errorf("session provider is required")
	}
	return nil
}
