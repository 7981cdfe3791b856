package ports

import (
	"context"

	"github.com/kursownik/api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create stores a new user and returns it with its assigned ID.
	// Returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update applies the non-nil fields of upd and returns the stored user.
	Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
