package ports

import (
	"context"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/pkg/roles"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	ID    string
	Email string
	Roles string
	Token string
}

// UserRoles is a user listed with human-readable role names.
type UserRoles struct {
	ID        string
	Email     string
	Roles     string
	RoleNames []string
}

// AuthService covers signup, login, token validation, and role administration.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// ValidateToken checks the token and resolves its subject.
	ValidateToken(ctx context.Context, token string) (*domain.UserMetadata, error)
	UpdateUserRoles(ctx context.Context, caller domain.UserMetadata, userID string, rs []roles.Role) (*UserRoles, error)
	ListUsers(ctx context.Context, caller domain.UserMetadata) ([]UserRoles, error)
}
