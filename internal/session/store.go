package session

import (
	"time"

	"github.com/quillhq/quill-be/internal/models"
)

// Store persists sessions. Implementations must be safe for concurrent
// use; the single-node default is the in-memory store, with the SQL
// store available when sessions should survive restarts.
type Store interface {
	Save(s models.Session) error
	// Get returns the session for token; the bool is false when no such
	// session exists.
	Get(token string) (models.Session, bool, error)
	// Delete removes the session for token. Deleting an absent token is
	// not an error.
	Delete(token string) error
	// DeleteExpired removes sessions that expired before now and returns
	// how many were removed.
	DeleteExpired(now time.Time) (int64, error)
}
