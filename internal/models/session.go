package models

import "time"

// Session is a server-side login session identified by an opaque token.
// The zero ExpiresAt means the session never expires.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the session has passed its expiry time.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
