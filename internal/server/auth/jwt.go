// Package auth issues and verifies session tokens and decides whether a
// presented token identifies a live session.
//
// Tokens are HS256 JWTs signed with a secret injected at construction.
// Rotating the secret invalidates every token issued under the old one.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultIssuerName = "projecthub"

var (
	ErrEmptySecret     = errors.New("auth: empty secret key")
	ErrInvalidLifetime = errors.New("auth: token lifetime must be positive")
)

// Claims are the registered JWT claims we rely on: sub is the user ID and
// jti the token ID used as the revocation key.
type Claims struct {
	jwt.RegisteredClaims
}

// IssuedToken is a freshly signed token with the values a client needs.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

type Issuer struct {
	secret   []byte
	lifetime time.Duration
	name     string
	now      func() time.Time
	newID    func() string
}

type IssuerOption func(*Issuer)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) { i.now = now }
}

// WithIssuerName sets the iss claim written and required.
func WithIssuerName(name string) IssuerOption {
	return func(i *Issuer) { i.name = name }
}

func NewIssuer(secret []byte, lifetime time.Duration, opts ...IssuerOption) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if lifetime <= 0 {
		return nil, ErrInvalidLifetime
	}

	i := &Issuer{
		secret:   append([]byte(nil), secret...),
		lifetime: lifetime,
		name:     DefaultIssuerName,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Lifetime reports how long issued tokens stay valid.
func (i *Issuer) Lifetime() time.Duration {
	return i.lifetime
}

func (i *Issuer) Issue(userID string) (*IssuedToken, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty subject", common.ErrorInternal)
	}

	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.name,
			Subject:   userID,
			ID:        i.newID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     signed,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify checks the signature first and the expiry second, so a forged
// token is reported as such even when its claimed expiry has passed.
// The returned error is one of common.ErrTokenMalformed,
// common.ErrTokenBadSignature or common.ErrTokenExpired.
func (i *Issuer) Verify(token string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(i.name),
		jwt.WithTimeFunc(i.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return nil, classify(err)
	}

	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing sub or jti", common.ErrTokenMalformed)
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", common.ErrTokenBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	default:
		return fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	}
}
