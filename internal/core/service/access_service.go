package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/ports"
	"github.com/kursownik/api/pkg/roles"
)

// PremiumAccess resolves premium access from enrollments. Administrators
// always have access.
type PremiumAccess struct {
	enrollments ports.EnrollmentRepository
}

func NewPremiumAccess(enrollments ports.EnrollmentRepository) *PremiumAccess {
	return &PremiumAccess{enrollments: enrollments}
}

func (a *PremiumAccess) HasPremium(ctx context.Context, caller domain.UserMetadata, courseID string) (bool, error) {
	if roles.HasRole(caller.Roles, roles.Admin) {
		return true, nil
	}
	e, err := a.enrollments.Find(ctx, caller.ID, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrEnrollmentNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("premium check: %w", err)
	}
	return e.IsPremium, nil
}

func (a *PremiumAccess) PremiumCourses(ctx context.Context, caller domain.UserMetadata) (ports.PremiumSet, error) {
	if roles.HasRole(caller.Roles, roles.Admin) {
		return ports.PremiumSet{All: true}, nil
	}
	ids, err := a.enrollments.ListPremiumCourseIDs(ctx, caller.ID)
	if err != nil {
		return ports.PremiumSet{}, fmt.Errorf("premium courses: %w", err)
	}
	set := ports.PremiumSet{Courses: make(map[string]bool, len(ids))}
	for _, id := range ids {
		set.Courses[id] = true
	}
	return set, nil
}
