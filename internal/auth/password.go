package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrHash means the plaintext could not be hashed (e.g. it exceeds
	// bcrypt's 72-byte input limit).
	ErrHash = errors.New("password hashing failed")
	// ErrVerify means the stored digest is malformed; it is distinct from
	// a plain mismatch, which is not an error.
	ErrVerify = errors.New("password digest is invalid")
)

// Hasher computes and verifies salted bcrypt password digests.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost. Costs outside
// bcrypt's valid range fall back to the default cost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash computes a salted digest of the plaintext. Each call salts anew,
// so two hashes of the same input differ.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHash, err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. A mismatch is
// (false, nil); a corrupted digest is (false, ErrVerify).
func (h *Hasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrVerify, err)
}
