package ports

import (
	"context"

	"github.com/kursownik/api/internal/core/domain"
)

// UpdateUserInput carries a profile update. Nil fields are left untouched.
type UpdateUserInput struct {
	Email    *string
	Password *string
	Roles    *string
}

// UserService covers self-service and admin user operations.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.UserMetadata, error)
	// Update is allowed for the user themselves or an administrator.
	Update(ctx context.Context, caller domain.UserMetadata, id string, in UpdateUserInput) (*domain.UserMetadata, error)
	Delete(ctx context.Context, id string) error
}
