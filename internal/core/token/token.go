// Package token issues and validates bearer tokens of the form
//
//	token_<payload>
//
// The payload is produced by a Codec. PlainCodec keeps the historical
// "<unixMillis>:<email>" payload; SignedCodec wraps the same claims in an
// HS256 JWT so a token cannot be forged without the server secret.
package token

import (
	"errors"
	"strings"
	"time"
)

// Prefix starts every token.
const Prefix = "token_"

// DefaultExpiry is used when no expiry window is configured.
const DefaultExpiry = time.Hour

var (
	ErrInvalid       = errors.New("Invalid token")
	ErrInvalidFormat = errors.New("Invalid token format")
	ErrExpired       = errors.New("Token has expired")
)

// Claims is what a token carries.
type Claims struct {
	Email    string
	IssuedAt time.Time
}

// Codec turns claims into a token payload and back. Decode receives the
// payload with Prefix already removed.
type Codec interface {
	Encode(c Claims) (string, error)
	Decode(payload string) (Claims, error)
}

// Issuer generates tokens and checks them against the expiry window.
type Issuer struct {
	codec  Codec
	expiry time.Duration
	now    func() time.Time
}

// Option customises an Issuer.
type Option func(*Issuer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer builds an Issuer. A non-positive expiry falls back to DefaultExpiry.
func NewIssuer(codec Codec, expiry time.Duration, opts ...Option) *Issuer {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	i := &Issuer{codec: codec, expiry: expiry, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Expiry returns the configured validity window.
func (i *Issuer) Expiry() time.Duration {
	return i.expiry
}

// Generate issues a token for email stamped with the current time.
func (i *Issuer) Generate(email string) (string, error) {
	payload, err := i.codec.Encode(Claims{Email: email, IssuedAt: i.now()})
	if err != nil {
		return "", err
	}
	return Prefix + payload, nil
}

// Parse validates tok and returns its claims. Checks run in order: prefix,
// payload shape, expiry. Looking up the subject is the caller's job.
func (i *Issuer) Parse(tok string) (Claims, error) {
	if !strings.HasPrefix(tok, Prefix) {
		return Claims{}, ErrInvalid
	}

	claims, err := i.codec.Decode(strings.TrimPrefix(tok, Prefix))
	if err != nil {
		return Claims{}, err
	}

	age := i.now().UnixMilli() - claims.IssuedAt.UnixMilli()
	if age > i.expiry.Milliseconds() {
		return Claims{}, ErrExpired
	}
	return claims, nil
}
