package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/quillhq/quill-be/internal/auth"
	"github.com/quillhq/quill-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	CreateUser(username, password string) (models.User, error)
	AuthenticateUser(username, password string) (models.User, error)
}

// UserService is the credential store: it owns the users table and the
// hashing of passwords on the way in.
type UserService struct {
	db     *sql.DB
	hasher *auth.Hasher
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, hasher *auth.Hasher) *UserService {
	return &UserService{db: db, hasher: hasher}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by exact, case-sensitive username,
// including the password hash.
func (s *UserService) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return user, nil
}

// CreateUser hashes the password and inserts a new user. Uniqueness is
// enforced by the UNIQUE constraint, not a prior lookup, so two
// concurrent registrations of the same name cannot both succeed.
func (s *UserService) CreateUser(username, password string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, ErrValidation
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hashed,
	}

	_, err = s.db.Exec(
		"INSERT INTO users(id, username, password_hash) VALUES(?, ?, ?)",
		user.ID, user.Username, user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials. A missing user and a
// wrong password return the same ErrInvalidCredentials.
func (s *UserService) AuthenticateUser(username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		if err == ErrNotFound {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
