package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kursownik/api/internal/api/metrics"
	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/ports"
	"github.com/kursownik/api/internal/core/token"
	"github.com/kursownik/api/pkg/roles"
)

// AuthService implements signup, login, token validation, and role administration.
type AuthService struct {
	users  ports.UserRepository
	tokens *token.Issuer
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens *token.Issuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Signup registers a user with the default User role.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Roles:        roles.GenerateDefaultUserRoles(),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user signed up")
	return created, nil
}

// Login checks the credentials and issues a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Generate(user.Email)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return &ports.LoginResult{ID: user.ID, Email: user.Email, Roles: user.Roles, Token: tok}, nil
}

// ValidateToken parses tok and resolves the user it was issued to.
func (s *AuthService) ValidateToken(ctx context.Context, tok string) (*domain.UserMetadata, error) {
	claims, err := s.tokens.Parse(tok)
	if err != nil {
		metrics.TokenValidationsTotal.WithLabelValues(validationResult(err)).Inc()
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		metrics.TokenValidationsTotal.WithLabelValues("unknown_user").Inc()
		return nil, err
	}

	metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
	meta := user.Metadata()
	return &meta, nil
}

func validationResult(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrInvalidFormat):
		return "invalid_format"
	default:
		return "invalid"
	}
}

// UpdateUserRoles replaces the target's roles with exactly rs.
func (s *AuthService) UpdateUserRoles(ctx context.Context, caller domain.UserMetadata, userID string, rs []roles.Role) (*ports.UserRoles, error) {
	if !roles.HasRole(caller.Roles, roles.Admin) {
		return nil, fmt.Errorf("%w: only administrators can manage user roles", domain.ErrForbidden)
	}

	bits, err := roles.FromIndices(rs)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	updated, err := s.users.Update(ctx, userID, domain.UserUpdate{Roles: &bits})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("admin_id", caller.ID).
		Str("user_id", updated.ID).
		Str("roles", updated.Roles).
		Msg("user roles updated")

	out := toUserRoles(updated)
	return &out, nil
}

// ListUsers returns every user with role names.
func (s *AuthService) ListUsers(ctx context.Context, caller domain.UserMetadata) ([]ports.UserRoles, error) {
	if !roles.HasRole(caller.Roles, roles.Admin) {
		return nil, fmt.Errorf("%w: only administrators can view all users", domain.ErrForbidden)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ports.UserRoles, 0, len(users))
	for _, u := range users {
		out = append(out, toUserRoles(u))
	}
	return out, nil
}

func toUserRoles(u *domain.User) ports.UserRoles {
	return ports.UserRoles{
		ID:        u.ID,
		Email:     u.Email,
		Roles:     u.Roles,
		RoleNames: roles.Names(roles.GetUserRoles(u.Roles)),
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
