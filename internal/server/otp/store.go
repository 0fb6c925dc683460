// Package otp manages the short-lived one-time passcodes that gate account
// activation. Codes live in an in-memory expiring map; a process restart
// forgets all outstanding codes, which is an accepted tradeoff for a
// short-TTL, low-value secret.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

const codeSpace = 1000000 // six decimal digits, zero-padded

// ResendTooSoonError is returned by Generate when a code for the same email
// was produced inside the resend cooldown window. The rejected code is never
// part of the error.
type ResendTooSoonError struct {
	Remaining time.Duration
}

func (e *ResendTooSoonError) Error() string {
	return fmt.Sprintf("please wait %d seconds before resending OTP", int(e.Remaining.Seconds()))
}

type entry struct {
	code      string
	createdAt time.Time
}

// Store holds at most one live code per email. All operations on the same
// email are linearizable through the store mutex; an entry older than the
// TTL behaves as absent on every access path even before it is evicted.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry

	ttl      time.Duration
	cooldown time.Duration

	now func() time.Time
}

// NewStore creates a Store with the given code TTL and resend cooldown.
func NewStore(ttl, cooldown time.Duration) *Store {
	return &Store{
		entries:  make(map[string]entry),
		ttl:      ttl,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Generate creates and stores a fresh 6-digit code for the email, replacing
// any previous one. If the previous code was generated less than the
// cooldown ago, it returns a *ResendTooSoonError and leaves the stored code
// untouched. The caller is responsible for delivering the returned code
// out-of-band.
func (s *Store) Generate(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if e, ok := s.entries[email]; ok && now.Sub(e.createdAt) < s.ttl {
		if elapsed := now.Sub(e.createdAt); elapsed < s.cooldown {
			return "", &ResendTooSoonError{Remaining: s.cooldown - elapsed}
		}
	}

	code, err := randomCode()
	if err != nil {
		return "", fmt.Errorf("generating otp: %w", err)
	}

	s.entries[email] = entry{code: code, createdAt: now}
	return code, nil
}

// Verify checks the submitted code against the stored one. It fails closed
// when no live entry exists (absent or past TTL). On an exact match the
// entry is removed so the code is single-use; on a mismatch the entry stays
// so the user may retry within the TTL.
func (s *Store) Verify(email, submitted string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[email]
	if !ok {
		return false
	}
	if s.now().Sub(e.createdAt) >= s.ttl {
		delete(s.entries, email)
		return false
	}
	if e.code != submitted {
		return false
	}

	delete(s.entries, email)
	return true
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
