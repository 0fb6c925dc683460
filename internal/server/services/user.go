// Package services contains the server-side business logic. This file
// implements UserService, the orchestration layer that turns credential
// presentations into accepted or rejected outcomes by composing the token
// codec, the OTP store, persistence, and the mailer.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/validoio/valido/internal/common"
	"github.com/validoio/valido/internal/cryptox"
	"github.com/validoio/valido/internal/dbx"
	"github.com/validoio/valido/internal/logging"
	"github.com/validoio/valido/internal/server/auth"
	"github.com/validoio/valido/internal/server/config"
	"github.com/validoio/valido/internal/server/mailer"
	"github.com/validoio/valido/internal/server/models"
	"github.com/validoio/valido/internal/server/otp"
	"github.com/validoio/valido/internal/server/repositories/repomanager"
)

// UserService provides the credential operations:
//   - Signup: create an unverified, inactive account and dispatch an OTP
//   - VerifySignupOtp / ResendOtp: the activation challenge
//   - Login: verify credentials and mint a token pair
//   - RefreshToken: exchange a refresh token for a fresh access token
//
// Every operation returns either a result or a *common.ServiceError; no
// other error type crosses this boundary.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
	otp         *otp.Store
	mailer      mailer.Mailer
	logger      logging.Logger
	otpTTL      time.Duration

	now func() time.Time
}

// NewUserService wires the service from its collaborators and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec,
	otpStore *otp.Store, mail mailer.Mailer, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		codec:       codec,
		otp:         otpStore,
		mailer:      mail,
		logger:      logger.With("module", "user_service"),
		otpTTL:      cfg.OtpValidityDuration,
		now:         time.Now,
	}
}

// Login runs the credential guard chain and mints a token pair on success.
// Unknown email and wrong password both come back as the same unauthorized
// response, so the endpoint cannot be used to enumerate accounts.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, common.BadRequest("Invalid credentials")
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Unauthorized("Invalid credentials")
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return nil, common.Internal("Internal Server Error")
	}

	if !cryptox.PasswordMatches(password, user.Password) {
		return nil, common.Unauthorized("Invalid credentials")
	}
	if !user.IsVerified {
		return nil, common.Forbidden("Email not verified. Please verify your email first.")
	}
	if !user.IsActive {
		return nil, common.Forbidden("Account is inactive. Please contact support.")
	}

	token, err := s.codec.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error(ctx, "access token issuance failed", "error", err)
		return nil, common.Internal("Internal Server Error")
	}
	refreshToken, err := s.codec.IssueRefreshToken(user.ID)
	if err != nil {
		s.logger.Error(ctx, "refresh token issuance failed", "error", err)
		return nil, common.Internal("Internal Server Error")
	}

	return &LoginResult{
		UserID:       user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

// Signup creates a new unverified account. The email existence check and
// the insert run inside one transaction, closing the duplicate-email race
// under concurrent signups. The OTP dispatch happens after the commit and
// is best-effort: account creation is authoritative, the welcome email is
// advisory and retried only by the user hitting resend.
func (s *UserService) Signup(ctx context.Context, req *SignupRequest) (*SignupResult, error) {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		return nil, common.BadRequest("Email and password are required")
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.Internal("Internal Server Error")
	}

	now := s.now().UTC()
	createdAt := now
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}

	user := &models.User{
		ID:          uuid.New().String(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    hash,
		PhoneNumber: req.PhoneNumber,
		IsActive:    false,
		IsVerified:  false,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	user.Creator = user.ID
	user.Modifier = user.ID

	txErr := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, req.Email)
		if err == nil {
			return common.Conflict("User email already exists")
		}
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error(ctx, "signup lookup failed", "error", err)
			return common.Internal("Internal Server Error")
		}

		if _, err := repo.Create(ctx, user); err != nil {
			s.logger.Error(ctx, "user insert failed", "error", err)
			return common.Internal("User not created")
		}
		return nil
	})
	if txErr != nil {
		return nil, common.AsServiceError(txErr)
	}

	if err := s.sendWelcomeOtp(ctx, user.Email); err != nil {
		// Deliberate asymmetry: the account exists, the email is advisory.
		s.logger.Error(ctx, "failed to send welcome email", "email", user.Email, "error", err)
	}

	return &SignupResult{
		UserID:      user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
		IsVerified:  user.IsVerified,
		CreatedAt:   user.CreatedAt,
		Message:     "Signup successful. Please verify your email with the OTP sent.",
	}, nil
}

func (s *UserService) sendWelcomeOtp(ctx context.Context, email string) error {
	code, err := s.otp.Generate(email)
	if err != nil {
		return err
	}
	return s.mailer.SendVerificationEmail(ctx, email, code, s.otpTTL)
}

// VerifySignupOtp consumes the challenge code and activates the account.
// Verification is idempotent for already-verified users; no code is burned
// in that case. When the code matches but the persistence update fails, the
// code stays burned and the caller must request a resend.
func (s *UserService) VerifySignupOtp(ctx context.Context, email, code string) (*VerifyOtpResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("User not found")
		}
		s.logger.Error(ctx, "otp verification lookup failed", "error", err)
		return nil, common.Internal("Internal Server Error")
	}

	if user.IsVerified {
		return &VerifyOtpResult{Verified: true, Message: "User already verified"}, nil
	}

	if !s.otp.Verify(email, code) {
		return nil, common.Unauthorized("Invalid or expired OTP")
	}

	if err := repo.MarkVerifiedAndActive(ctx, user.ID, s.now().UTC()); err != nil {
		s.logger.Error(ctx, "failed to mark user verified", "user_id", user.ID, "error", err)
		return nil, common.Internal("Failed to update user verification state")
	}

	return &VerifyOtpResult{Verified: true, Message: "Email verified successfully"}, nil
}

// ResendOtp issues a fresh challenge code for an unverified account. The
// OTP store's cooldown surfaces as a throttled response carrying only the
// remaining wait, never the outstanding code.
func (s *UserService) ResendOtp(ctx context.Context, email string) (*ResendOtpResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("User not found")
		}
		s.logger.Error(ctx, "otp resend lookup failed", "error", err)
		return nil, common.Internal("Internal Server Error")
	}

	if user.IsVerified {
		return nil, common.Conflict("User already verified")
	}

	code, err := s.otp.Generate(email)
	if err != nil {
		var tooSoon *otp.ResendTooSoonError
		if errors.As(err, &tooSoon) {
			return nil, common.TooManyRequests(tooSoon.Error())
		}
		s.logger.Error(ctx, "otp generation failed", "error", err)
		return nil, common.Internal("Internal Server Error")
	}

	if err := s.mailer.SendVerificationEmail(ctx, email, code, s.otpTTL); err != nil {
		s.logger.Error(ctx, "failed to send verification email", "email", email, "error", err)
		return nil, common.Internal("Failed to send verification email")
	}

	return &ResendOtpResult{Message: "Verification code sent"}, nil
}

// RefreshToken exchanges a valid refresh token for a fresh access token.
// The refresh path fails closed: anything unexpected is a forbidden
// response, not an internal error.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.codec.ExtractClaims(refreshToken)
	if err != nil {
		return nil, common.Forbidden("Invalid refresh token")
	}
	if s.codec.IsExpired(refreshToken) {
		return nil, common.Forbidden("Refresh token expired")
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("User not found")
		}
		s.logger.Error(ctx, "refresh lookup failed", "error", err)
		return nil, common.Forbidden("Invalid refresh token")
	}

	token, err := s.codec.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error(ctx, "access token issuance failed", "error", err)
		return nil, common.Forbidden("Invalid refresh token")
	}

	return &RefreshResult{Token: token, RefreshToken: refreshToken}, nil
}

// ListUsers returns projections of every account on file.
func (s *UserService) ListUsers(ctx context.Context) ([]*UserInfo, error) {
	repo := s.repomanager.Users(s.db)

	all, err := repo.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "user listing failed", "error", err)
		return nil, common.Internal("Failed to fetch users")
	}
	if len(all) == 0 {
		return nil, common.NotFound("No users found")
	}

	result := make([]*UserInfo, 0, len(all))
	for _, u := range all {
		result = append(result, userInfoFrom(u))
	}
	return result, nil
}

// GetUser returns the projection of a single account by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*UserInfo, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("User not found")
		}
		s.logger.Error(ctx, "user retrieval failed", "user_id", id, "error", err)
		return nil, common.Internal("Internal Server Error")
	}

	return userInfoFrom(user), nil
}
