// Package auth issues and parses the signed tokens used for API access.
// Access and refresh tokens share one HMAC key and algorithm (HS256) but
// carry different claim shapes and lifetimes.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/validoio/valido/internal/common"
)

// Claims are the assertions embedded in a signed token: the registered
// claims plus the user's email and id. Refresh tokens carry only the
// subject and userId.
type Claims struct {
	jwt.RegisteredClaims
	Email  string `json:"email,omitempty"`
	UserID string `json:"userId,omitempty"`
}

// Codec signs and verifies tokens with a single symmetric key held for the
// process lifetime. Construct it once at the composition root and inject it;
// there is no package-level key.
type Codec struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	now func() time.Time
}

func NewCodec(secretKey []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccessToken mints a short-lived token with subject = userID plus the
// email and userId claims used by API consumers.
func (c *Codec) IssueAccessToken(userID, email string) (string, error) {
	now := c.now()
	return c.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
		Email:  email,
		UserID: userID,
	})
}

// IssueRefreshToken mints a long-lived token carrying only the subject.
func (c *Codec) IssueRefreshToken(userID string) (string, error) {
	now := c.now()
	return c.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
		UserID: userID,
	})
}

func (c *Codec) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secretKey)
}

// ExtractClaims verifies the signature and structure of the token and
// returns its claims. Expiry is deliberately not checked here; an expired
// but well-signed token still parses, and callers consult IsExpired.
// Signature or structure failures yield common.ErrInvalidToken.
func (c *Codec) ExtractClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return c.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, errors.Join(common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// IsExpired reports whether the token's embedded expiry has passed. It is a
// predicate, not a validation: tokens that fail to parse at all count as
// expired so that callers always fail closed.
func (c *Codec) IsExpired(tokenString string) bool {
	claims, err := c.ExtractClaims(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Before(c.now())
}
