package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/ports"
	"github.com/kursownik/api/pkg/roles"
)

// UserService implements profile reads, updates, and deletion.
type UserService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.UserMetadata, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	meta := user.Metadata()
	return &meta, nil
}

// Update lets users edit their own email and password. Administrators may
// edit anyone, roles included.
func (s *UserService) Update(ctx context.Context, caller domain.UserMetadata, id string, in ports.UpdateUserInput) (*domain.UserMetadata, error) {
	isAdmin := roles.HasRole(caller.Roles, roles.Admin)
	if caller.ID != id && !isAdmin {
		return nil, fmt.Errorf("%w: you can only modify your own data or you need admin privileges", domain.ErrForbidden)
	}
	if in.Roles != nil {
		if !isAdmin {
			return nil, fmt.Errorf("%w: only administrators can change roles", domain.ErrForbidden)
		}
		if !roles.IsWellFormed(*in.Roles) {
			return nil, fmt.Errorf("%w: roles must be a string of 0 and 1 of at most %d characters", roles.ErrInvalidRole, roles.Count)
		}
	}

	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, err
	}

	upd := domain.UserUpdate{Email: in.Email, Roles: in.Roles}
	if in.Email != nil {
		other, err := s.users.FindByEmail(ctx, *in.Email)
		switch {
		case err == nil && other.ID != id:
			return nil, domain.ErrUserExists
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	if in.Password != nil {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &hash
	}

	updated, err := s.users.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Str("by", caller.ID).Msg("user updated")
	meta := updated.Metadata()
	return &meta, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
