package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SignedCodec wraps the claims in an HS256 JWT. Expiry is checked by the
// Issuer with millisecond precision, so the JWT's own time claims are not
// validated here.
type SignedCodec struct {
	secret []byte
}

// ErrMissingSecret is returned by NewSignedCodec for an empty secret.
var ErrMissingSecret = errors.New("token: signing secret is empty")

func NewSignedCodec(secret string) (*SignedCodec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &SignedCodec{secret: []byte(secret)}, nil
}

func (s *SignedCodec) Encode(c Claims) (string, error) {
	claims := jwt.MapClaims{
		"sub":    c.Email,
		"iat_ms": c.IssuedAt.UnixMilli(),
		"jti":    uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *SignedCodec) Decode(payload string) (Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(payload, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !tkn.Valid {
		return Claims{}, ErrInvalid
	}

	email, _ := claims["sub"].(string)
	// JSON numbers decode as float64; millis fit well inside its exact range.
	millis, ok := claims["iat_ms"].(float64)
	if email == "" || !ok {
		return Claims{}, ErrInvalidFormat
	}
	return Claims{Email: email, IssuedAt: time.UnixMilli(int64(millis))}, nil
}
