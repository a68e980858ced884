package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/quillhq/quill-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Token length in bytes (32 bytes = 64 hex characters).
const tokenLength = 32

// Manager owns the session lifecycle: create on login, resolve per
// request, destroy on logout. A session moves Created -> Active ->
// Destroyed and never back.
type Manager struct {
	store Store
	ttl   time.Duration // 0 means sessions never expire
}

// NewManager creates a Manager over the given store. ttl of 0 disables
// expiry.
func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// Create generates an unguessable token, records the session and
// returns the token for the caller to set as a cookie.
func (m *Manager) Create(userID string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	sess := models.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
	}
	if m.ttl > 0 {
		sess.ExpiresAt = now.Add(m.ttl)
	}

	if err := m.store.Save(sess); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return token, nil
}

// Resolve looks up the session for token and returns the owning user's
// ID. Absent, malformed and expired tokens all resolve to false; an
// expired session is removed on the way out.
func (m *Manager) Resolve(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	sess, ok, err := m.store.Get(token)
	if err != nil {
		log.Error().Err(err).Msg("Session lookup failed")
		return "", false
	}
	if !ok {
		return "", false
	}

	if sess.Expired(time.Now()) {
		if err := m.store.Delete(token); err != nil {
			log.Warn().Err(err).Msg("Failed to remove expired session")
		}
		return "", false
	}

	return sess.UserID, true
}

// Destroy removes the session for token. It is idempotent: destroying
// an already-absent token succeeds.
func (m *Manager) Destroy(token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(token)
}

// SweepExpired removes all expired sessions and returns how many were
// dropped.
func (m *Manager) SweepExpired() (int64, error) {
	return m.store.DeleteExpired(time.Now())
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// generateToken returns a cryptographically random hex token.
func generateToken() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
