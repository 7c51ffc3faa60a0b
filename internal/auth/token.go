// Package auth implements credentials for the service: bcrypt password
// hashing, stateless HS256 bearer tokens, and request-context identity.
//
// Two token kinds exist, signed with distinct secrets so one can never be
// replayed as the other: auth tokens gate the protected API, reset tokens
// are short-lived capabilities handed out by the forgot-password flow.
// Neither kind is stored server-side; expiry is the only revocation.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "leafcare"

// Claims is the verified claim set of a leafcare token.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the user id the token is bound to.
func (c *Claims) UserID() string {
	return c.RegisteredClaims.Subject
}

// Tokens issues and verifies bearer tokens. It holds both signing secrets
// and is safe for concurrent use.
type Tokens struct {
	authSecret  []byte
	resetSecret []byte
	authTTL     time.Duration
	resetTTL    time.Duration
	now         func() time.Time
}

// TokensOption configures Tokens behavior.
type TokensOption func(*Tokens)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) TokensOption {
	return func(t *Tokens) {
		if fn != nil {
			t.now = fn
		}
	}
}

// NewTokens constructs the token service. Both secrets are required and
// must differ; TTLs at or below zero fall back to the defaults (1h auth,
// 15m reset).
func NewTokens(authSecret, resetSecret string, authTTL, resetTTL time.Duration, opts ...TokensOption) (*Tokens, error) {
	authSecret = strings.TrimSpace(authSecret)
	resetSecret = strings.TrimSpace(resetSecret)
	if authSecret == "" || resetSecret == "" {
		return nil, errors.New("auth: both token secrets are required")
	}
	if authSecret == resetSecret {
		return nil, errors.New("auth: auth and reset secrets must differ")
	}
	if authTTL <= 0 {
		authTTL = time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = 15 * time.Minute
	}
	t := &Tokens{
		authSecret:  []byte(authSecret),
		resetSecret: []byte(resetSecret),
		authTTL:     authTTL,
		resetTTL:    resetTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// IssueAuthToken signs a bearer token for the given user, valid for the
// configured auth TTL.
func (t *Tokens) IssueAuthToken(userID string) (string, error) {
	return t.issue(userID, t.authSecret, t.authTTL)
}

// IssueResetToken signs a password-reset token for the given user under
// the separate reset secret.
func (t *Tokens) IssueResetToken(userID string) (string, error) {
	return t.issue(userID, t.resetSecret, t.resetTTL)
}

func (t *Tokens) issue(userID string, secret []byte, ttl time.Duration) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("auth: userID is required")
	}
	now := t.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyAuthToken validates a bearer token against the auth secret.
func (t *Tokens) VerifyAuthToken(token string) (*Claims, error) {
	return t.verify(token, t.authSecret)
}

// VerifyResetToken validates a reset token against the reset secret.
func (t *Tokens) VerifyResetToken(token string) (*Claims, error) {
	return t.verify(token, t.resetSecret)
}

func (t *Tokens) verify(token string, secret []byte) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenMalformed
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenInvalid
		}
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
