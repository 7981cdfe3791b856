package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("User not found")
	ErrUserExists         = errors.New("A user with this email already exists.")
	ErrInvalidCredentials = errors.New("Invalid email or password.")
	ErrForbidden          = errors.New("access forbidden")

	ErrCourseNotFound     = errors.New("course not found")
	ErrChapterNotFound    = errors.New("chapter not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrPremiumRequired    = errors.New("You must be a premium user")

	ErrAlreadyPremium      = errors.New("User already has premium access to this course")
	ErrRateUnavailable     = errors.New("exchange rate not available")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrCourseEmpty         = errors.New("course has no content")
	ErrRatesUpstream       = errors.New("failed to fetch currency rates from external API")
	ErrPurchaseInProgress  = errors.New("a purchase for this course is already in progress")
)

// NotFoundError names the missing entity and id. It unwraps to the
// entity's not-found sentinel.
type NotFoundError struct {
	Entity string
	ID     string
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }
