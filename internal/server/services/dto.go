package services

import (
	"time"

	"github.com/validoio/valido/internal/server/models"
)

// SignupRequest carries the fields a caller submits to create an account.
// CreatedAt lets importers backfill the audit timestamp; normal signups
// leave it nil and get "now".
type SignupRequest struct {
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	PhoneNumber string     `json:"phoneNumber"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// LoginResult is the successful login payload: the token pair plus a
// profile projection. No shape returned by this package ever includes the
// password hash.
type LoginResult struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// SignupResult confirms account creation. It deliberately carries no token:
// the account is unusable until the OTP is verified.
type SignupResult struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
	Message     string    `json:"message"`
}

// VerifyOtpResult reports the outcome of an OTP confirmation.
type VerifyOtpResult struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

// ResendOtpResult acknowledges that a fresh code was dispatched.
type ResendOtpResult struct {
	Message string `json:"message"`
}

// RefreshResult carries a fresh access token. The refresh token is echoed
// back unchanged; this design does not rotate refresh tokens.
type RefreshResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// UserInfo is the administrative projection of a user record.
type UserInfo struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	IsActive    bool      `json:"isActive"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func userInfoFrom(u *models.User) *UserInfo {
	return &UserInfo{
		UserID:      u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
