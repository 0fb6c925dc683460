// Package models holds the persistent entities owned by the storage layer.
package models

import "time"

// User is a registered identity and its credential record. Password always
// holds a bcrypt hash, never plaintext. Users are deactivated rather than
// deleted; IsVerified flips once the signup OTP is confirmed and IsActive
// gates login.
type User struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
	IsActive    bool
	IsVerified  bool
	Creator     string
	Modifier    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
