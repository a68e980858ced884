package session

import (
	"database/sql"
	"time"

	"github.com/quillhq/quill-be/internal/models"
)

// SQLStore persists sessions in the sessions table, so logins survive
// server restarts.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a SQLStore over the given database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Save inserts the session row.
func (s *SQLStore) Save(sess models.Session) error {
	var expires interface{}
	if !sess.ExpiresAt.IsZero() {
		expires = sess.ExpiresAt
	}
	_, err := s.db.Exec(
		"INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)",
		sess.Token, sess.UserID, sess.CreatedAt, expires,
	)
	return err
}

// Get returns the session for token, if present.
func (s *SQLStore) Get(token string) (models.Session, bool, error) {
	var sess models.Session
	var expires sql.NullTime
	row := s.db.QueryRow("SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?", token)
	err := row.Scan(&sess.Token, &sess.UserID, &sess.CreatedAt, &expires)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Session{}, false, nil
		}
		return models.Session{}, false, err
	}
	if expires.Valid {
		sess.ExpiresAt = expires.Time
	}
	return sess, true, nil
}

// Delete removes the session row; absent tokens are a no-op.
func (s *SQLStore) Delete(token string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

// DeleteExpired removes sessions that expired before now.
func (s *SQLStore) DeleteExpired(now time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at < ?", now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
