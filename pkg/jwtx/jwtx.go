// Package jwtx issues and verifies the HS256 session tokens handed to the
// Daykeep mobile app. Tokens are long-lived (30 days by default) because
// the client has no refresh flow; a stolen token is mitigated by account
// deletion and password reset, not by short expiry.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the default session token lifetime.
const DefaultTokenTTL = 30 * 24 * time.Hour

var (
	// ErrTokenInvalid reports a malformed token or a bad signature.
	ErrTokenInvalid = errors.New("jwtx: token invalid")
	// ErrTokenExpired reports a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("jwtx: token expired")
)

// Claims are the session token claims. Subject carries the user ID; Email
// is duplicated into the token so the client can render the account screen
// without a round trip.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
}

// Issuer signs and verifies session tokens with a single symmetric secret.
// The secret comes from validated startup configuration; there is
// deliberately no built-in fallback value.
type Issuer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Issue produces a signed token for the given user.
func (i *Issuer) Issue(userID, email string) (string, error) {
	ttl := i.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims. Expiry is
// reported as ErrTokenExpired; every other failure mode (bad signature,
// wrong algorithm, garbage input) collapses into ErrTokenInvalid so callers
// can't accidentally leak why verification failed.
func (i *Issuer) Verify(raw string) (Claims, error) {
	var opts []jwt.ParserOption
	if i.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.Issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return i.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}
