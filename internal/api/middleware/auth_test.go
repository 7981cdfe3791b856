package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/token"
)

type stubAuthenticator struct {
	user *domain.UserMetadata
	err  error
	got  string
}

func (s *stubAuthenticator) ValidateToken(_ context.Context, tok string) (*domain.UserMetadata, error) {
	s.got = tok
	return s.user, s.err
}

func serve(t *testing.T, mw echo.MiddlewareFunc, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := mw(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	stub := &stubAuthenticator{user: &domain.UserMetadata{ID: "u1", Email: "alice@example.com", Roles: "00100"}}

	called := false
	rec := serve(t, Auth(stub), "Bearer token_abc", func(c echo.Context) error {
		called = true
		user, ok := c.Get(UserKey).(domain.UserMetadata)
		if !ok || user.ID != "u1" || user.Roles != "00100" {
			t.Fatalf("user not set: %+v", c.Get(UserKey))
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.got != "token_abc" {
		t.Fatalf("unexpected token passed: %q", stub.got)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	for _, header := range []string{"", "Token abc", "Bearer", "Bearer "} {
		rec := serve(t, Auth(&stubAuthenticator{}), header, func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	for _, err := range []error{token.ErrInvalid, token.ErrInvalidFormat, token.ErrExpired, domain.ErrUserNotFound} {
		rec := serve(t, Auth(&stubAuthenticator{err: err}), "Bearer x", func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%v: expected 401, got %d", err, rec.Code)
		}
	}
}

func TestAuthMiddleware_LookupFailureIsNotUnauthorized(t *testing.T) {
	rec := serve(t, Auth(&stubAuthenticator{err: errors.New("mongo down")}), "Bearer x", func(c echo.Context) error {
		return nil
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
