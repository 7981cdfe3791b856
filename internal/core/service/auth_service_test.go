package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/token"
	"github.com/kursownik/api/pkg/roles"
)

func newAuthService(t *testing.T, repo *stubUserRepo) *AuthService {
	t.Helper()
	codec, err := token.NewSignedCodec("secret")
	if err != nil {
		t.Fatalf("NewSignedCodec: %v", err)
	}
	return NewAuthService(repo, token.NewIssuer(codec, time.Hour), nopLog)
}

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(t, repo)

	user, err := svc.Signup(context.Background(), "alice@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Roles != "00100" {
		t.Fatalf("expected default user roles, got %s", user.Roles)
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(t, repo)

	if _, err := svc.Signup(context.Background(), "alice@example.com", "pass1234"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(context.Background(), "alice@example.com", "other123"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(t, repo)
	ctx := context.Background()

	created, _ := svc.Signup(ctx, "alice@example.com", "pass1234")

	res, err := svc.Login(ctx, "alice@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.ID != created.ID || res.Roles != "00100" {
		t.Fatalf("unexpected login result: %+v", res)
	}

	meta, err := svc.ValidateToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if meta.Email != "alice@example.com" || meta.ID != created.ID {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(t, repo)
	ctx := context.Background()
	svc.Signup(ctx, "alice@example.com", "pass1234")

	cases := []struct{ email, password string }{
		{"alice@example.com", "wrong"},
		{"bob@example.com", "pass1234"},
		{"", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Login(ctx, tc.email, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("Login(%q): expected ErrInvalidCredentials, got %v", tc.email, err)
		}
	}
}

func TestAuthService_ValidateToken_Errors(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.ValidateToken(ctx, "bogus"); !errors.Is(err, token.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	tok, _ := svc.tokens.Generate("ghost@example.com")
	if _, err := svc.ValidateToken(ctx, tok); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_UpdateUserRoles(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(t, repo)
	ctx := context.Background()

	user, _ := svc.Signup(ctx, "bob@example.com", "pass1234")
	admin := domain.UserMetadata{ID: "admin", Roles: "10000"}

	res, err := svc.UpdateUserRoles(ctx, admin, user.ID, []roles.Role{roles.Moderator, roles.User})
	if err != nil {
		t.Fatalf("UpdateUserRoles: %v", err)
	}
	if res.Roles != "01100" {
		t.Fatalf("expected 01100, got %s", res.Roles)
	}
	if len(res.RoleNames) != 2 || res.RoleNames[0] != "Moderator" {
		t.Fatalf("unexpected role names: %v", res.RoleNames)
	}

	if _, err := svc.UpdateUserRoles(ctx, admin, "missing", []roles.Role{roles.User}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.UpdateUserRoles(ctx, admin, user.ID, []roles.Role{9}); !errors.Is(err, roles.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthService_AdminOnly(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(t, repo)
	ctx := context.Background()
	caller := domain.UserMetadata{ID: "u1", Roles: "00100"}

	if _, err := svc.UpdateUserRoles(ctx, caller, "u1", []roles.Role{roles.Admin}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.ListUsers(ctx, caller); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	svc.Signup(ctx, "a@example.com", "pass1234")
	svc.Signup(ctx, "b@example.com", "pass1234")
	users, err := svc.ListUsers(ctx, domain.UserMetadata{Roles: "10000"})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 || users[0].RoleNames[0] != "User" {
		t.Fatalf("unexpected users: %+v", users)
	}
}
