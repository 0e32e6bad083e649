package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted for new accounts.
const MinPasswordLength = 6

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

var (
	// ErrPasswordMismatch is returned when a plaintext does not match its hash.
	ErrPasswordMismatch = errors.New("crypto: password mismatch")
	// ErrPasswordTooLong is returned for plaintexts bcrypt cannot hash.
	ErrPasswordTooLong = errors.New("crypto: password exceeds 72 bytes")
)

// HashPassword hashes plaintext using bcrypt with a random salt.
func HashPassword(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword compares plaintext to hashed secret.
func ComparePassword(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
