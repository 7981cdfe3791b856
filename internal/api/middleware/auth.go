package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/token"
)

// UserKey is the echo context key holding the caller's domain.UserMetadata.
const UserKey = "user"

// Authenticator resolves a bearer token to the user it was issued to.
type Authenticator interface {
	ValidateToken(ctx context.Context, token string) (*domain.UserMetadata, error)
}

// Auth validates the bearer token and injects the caller into context.
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			user, err := auth.ValidateToken(c.Request().Context(), tok)
			if err != nil {
				if rejectsToken(err) {
					return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
				}
				return err
			}

			c.Set(UserKey, *user)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, tok, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || tok == "" {
		return "", false
	}
	return tok, true
}

// rejectsToken reports whether err means the token itself is unacceptable,
// as opposed to the lookup failing.
func rejectsToken(err error) bool {
	return errors.Is(err, token.ErrInvalid) ||
		errors.Is(err, token.ErrInvalidFormat) ||
		errors.Is(err, token.ErrExpired) ||
		errors.Is(err, domain.ErrUserNotFound)
}
