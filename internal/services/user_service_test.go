package services

import (
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/quillhq/quill-be/internal/auth"
	"github.com/quillhq/quill-be/internal/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory DB.
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(newTestDB(t), auth.NewHasher(bcrypt.MinCost))
}

func TestCreateUser(t *testing.T) {
	svc := newTestUserService(t)

	user, err := svc.CreateUser("alice", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice", user.Username)
	require.Empty(t, user.PasswordHash)

	stored, err := svc.GetUserByUsername("alice")
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.ID)
	// The stored hash is salted bcrypt, never the plaintext.
	require.NotEmpty(t, stored.PasswordHash)
	require.NotEqual(t, "secret123", stored.PasswordHash)
}

func TestCreateUserValidation(t *testing.T) {
	svc := newTestUserService(t)

	_, err := svc.CreateUser("", "secret123")
	require.True(t, errors.Is(err, ErrValidation))

	_, err = svc.CreateUser("alice", "")
	require.True(t, errors.Is(err, ErrValidation))
}

func TestCreateUserDuplicate(t *testing.T) {
	svc := newTestUserService(t)

	_, err := svc.CreateUser("alice", "secret123")
	require.NoError(t, err)

	_, err = svc.CreateUser("alice", "other-password")
	require.True(t, errors.Is(err, ErrDuplicateUsername))
}

func TestCreateUserConcurrentDuplicate(t *testing.T) {
	svc := newTestUserService(t)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.CreateUser("alice", "secret123")
		}(i)
	}
	wg.Wait()

	var successes, duplicates int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateUsername):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, duplicates)
}

func TestGetUserByUsernameIsCaseSensitive(t *testing.T) {
	svc := newTestUserService(t)

	_, err := svc.CreateUser("Alice", "secret123")
	require.NoError(t, err)

	_, err = svc.GetUserByUsername("alice")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestAuthenticateUser(t *testing.T) {
	svc := newTestUserService(t)

	created, err := svc.CreateUser("alice", "secret123")
	require.NoError(t, err)

	user, err := svc.AuthenticateUser("alice", "secret123")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)
	require.Empty(t, user.PasswordHash)
}

func TestAuthenticateUserFailuresAreIndistinguishable(t *testing.T) {
	svc := newTestUserService(t)

	_, err := svc.CreateUser("alice", "secret123")
	require.NoError(t, err)

	// Unknown user and wrong password must produce the same error.
	_, unknownErr := svc.AuthenticateUser("nobody", "secret123")
	_, wrongErr := svc.AuthenticateUser("alice", "wrong-password")

	require.True(t, errors.Is(unknownErr, ErrInvalidCredentials))
	require.True(t, errors.Is(wrongErr, ErrInvalidCredentials))
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}
