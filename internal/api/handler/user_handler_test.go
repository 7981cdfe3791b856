package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/ports"
)

func TestUserHandler_Get(t *testing.T) {
	stub := &stubUserService{
		getFn: func(ctx context.Context, id string) (*domain.UserMetadata, error) {
			if id != "u1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return &alice, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/user/u1", "", &alice)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := NewUserHandler(stub).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp domain.UserMetadata
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp != alice {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	stub := &stubUserService{
		getFn: func(ctx context.Context, id string) (*domain.UserMetadata, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	c, _ := newContext(http.MethodGet, "/user/ghost", "", &alice)
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	if err := NewUserHandler(stub).Get(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Patch_PassesOnlyProvidedFields(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, caller domain.UserMetadata, id string, in ports.UpdateUserInput) (*domain.UserMetadata, error) {
			if caller.ID != alice.ID || id != "u1" {
				t.Fatalf("unexpected args: %+v %s", caller, id)
			}
			if in.Email != nil || in.Roles != nil {
				t.Fatalf("unexpected fields: %+v", in)
			}
			if in.Password == nil || *in.Password != "n3w-password" {
				t.Fatalf("password not passed through")
			}
			return &alice, nil
		},
	}
	c, rec := newContext(http.MethodPatch, "/user/u1", `{"password":"n3w-password"}`, &alice)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := NewUserHandler(stub).Patch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Patch_Forbidden(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, caller domain.UserMetadata, id string, in ports.UpdateUserInput) (*domain.UserMetadata, error) {
			return nil, fmt.Errorf("%w: not yours", domain.ErrForbidden)
		},
	}
	c, _ := newContext(http.MethodPatch, "/user/u2", `{"email":"x@example.com"}`, &alice)
	c.SetParamNames("id")
	c.SetParamValues("u2")

	if err := NewUserHandler(stub).Patch(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Patch_InvalidEmail(t *testing.T) {
	stub := &stubUserService{}
	c, _ := newContext(http.MethodPatch, "/user/u1", `{"email":"nope"}`, &alice)

	if code := httpCode(NewUserHandler(stub).Patch(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	var deleted string
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	c, rec := newContext(http.MethodDelete, "/user/u1", "", &root)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := NewUserHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != "u1" {
		t.Fatalf("expected 204 for u1, got %d for %q", rec.Code, deleted)
	}
}
