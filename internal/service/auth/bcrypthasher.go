package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/nkiryanov/videohub/internal/apperrors"
)

// Used when no other hasher is configured
var DefaultHasher PasswordHasher = BcryptHasher{}

// Passwords are pre-hashed with sha256: bcrypt ignores input past 72 bytes
type BcryptHasher struct {
	// bcrypt.DefaultCost if zero
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword(prehash(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt failed. Err: %w", err)
	}
	return string(hash), nil
}

// Mismatch is reported as apperrors.ErrInvalidCredential, malformed hash as plain error
func (h BcryptHasher) Compare(hashedPassword string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), prehash(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return apperrors.ErrInvalidCredential
	default:
		return fmt.Errorf("stored password hash is unusable. Err: %w", err)
	}
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}
