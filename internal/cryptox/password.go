// Package cryptox wraps the password hashing primitives used by the service.
// Plaintext passwords never leave this package's call boundary: callers hash
// on signup and compare on login.
package cryptox

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted bcrypt hash from the plaintext password.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// PasswordMatches reports whether plaintext matches the stored bcrypt hash.
// bcrypt's comparison is constant-time over the derived key.
func PasswordMatches(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
