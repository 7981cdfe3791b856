package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/ports"
	"github.com/kursownik/api/pkg/roles"
)

func strPtr(s string) *string { return &s }

func seedUsers(t *testing.T, repo *stubUserRepo) (user, admin *domain.User) {
	t.Helper()
	ctx := context.Background()
	user, err := repo.Create(ctx, &domain.User{Email: "user@example.com", Roles: "00100"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	admin, err = repo.Create(ctx, &domain.User{Email: "admin@example.com", Roles: "10000"})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return user, admin
}

func TestUserService_UpdateSelf(t *testing.T) {
	repo := newStubUserRepo()
	user, _ := seedUsers(t, repo)
	svc := NewUserService(repo, nopLog)

	meta, err := svc.Update(context.Background(), user.Metadata(), user.ID, ports.UpdateUserInput{
		Email:    strPtr("new@example.com"),
		Password: strPtr("newpass123"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if meta.Email != "new@example.com" {
		t.Fatalf("unexpected email: %s", meta.Email)
	}
	stored := repo.users[user.ID]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass123")); err != nil {
		t.Fatalf("password was not re-hashed: %v", err)
	}
}

func TestUserService_UpdateForbidden(t *testing.T) {
	repo := newStubUserRepo()
	user, admin := seedUsers(t, repo)
	svc := NewUserService(repo, nopLog)
	ctx := context.Background()

	if _, err := svc.Update(ctx, user.Metadata(), admin.ID, ports.UpdateUserInput{Email: strPtr("x@example.com")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden editing another user, got %v", err)
	}
	if _, err := svc.Update(ctx, user.Metadata(), user.ID, ports.UpdateUserInput{Roles: strPtr("10000")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on self role change, got %v", err)
	}
	if repo.users[user.ID].Roles != "00100" {
		t.Fatalf("roles changed despite rejection")
	}
}

func TestUserService_AdminUpdatesRoles(t *testing.T) {
	repo := newStubUserRepo()
	user, admin := seedUsers(t, repo)
	svc := NewUserService(repo, nopLog)
	ctx := context.Background()

	meta, err := svc.Update(ctx, admin.Metadata(), user.ID, ports.UpdateUserInput{Roles: strPtr("01100")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if meta.Roles != "01100" {
		t.Fatalf("unexpected roles: %s", meta.Roles)
	}

	if _, err := svc.Update(ctx, admin.Metadata(), user.ID, ports.UpdateUserInput{Roles: strPtr("12")}); !errors.Is(err, roles.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_UpdateEmailTaken(t *testing.T) {
	repo := newStubUserRepo()
	user, admin := seedUsers(t, repo)
	svc := NewUserService(repo, nopLog)

	_, err := svc.Update(context.Background(), user.Metadata(), user.ID, ports.UpdateUserInput{Email: strPtr(admin.Email)})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_GetDelete(t *testing.T) {
	repo := newStubUserRepo()
	user, _ := seedUsers(t, repo)
	svc := NewUserService(repo, nopLog)
	ctx := context.Background()

	meta, err := svc.Get(ctx, user.ID)
	if err != nil || meta.Email != user.Email {
		t.Fatalf("Get: %+v, %v", meta, err)
	}
	if err := svc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}
