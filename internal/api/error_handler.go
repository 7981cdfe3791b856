package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/token"
	"github.com/kursownik/api/pkg/roles"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// statusFor maps domain errors onto HTTP codes. The first match wins.
var statusFor = []struct {
	target error
	code   int
}{
	{token.ErrInvalid, http.StatusUnauthorized},
	{token.ErrInvalidFormat, http.StatusUnauthorized},
	{token.ErrExpired, http.StatusUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},

	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrPremiumRequired, http.StatusForbidden},

	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrCourseNotFound, http.StatusNotFound},
	{domain.ErrChapterNotFound, http.StatusNotFound},
	{domain.ErrLessonNotFound, http.StatusNotFound},
	{domain.ErrEnrollmentNotFound, http.StatusNotFound},

	{domain.ErrUserExists, http.StatusConflict},
	{domain.ErrPurchaseInProgress, http.StatusConflict},

	{domain.ErrAlreadyPremium, http.StatusBadRequest},
	{domain.ErrRateUnavailable, http.StatusBadRequest},
	{domain.ErrCourseEmpty, http.StatusBadRequest},
	{domain.ErrUnsupportedCurrency, http.StatusBadRequest},
	{roles.ErrInvalidRole, http.StatusBadRequest},

	{domain.ErrRatesUpstream, http.StatusBadGateway},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Int("status", he.Code).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range statusFor {
		if errors.Is(err, m.target) {
			return m.code, err.Error()
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
