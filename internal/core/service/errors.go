package service

import (
	"errors"

	"github.com/kursownik/api/internal/core/domain"
)

var entityNames = map[error]string{
	domain.ErrCourseNotFound:  "Course",
	domain.ErrChapterNotFound: "Chapter",
	domain.ErrLessonNotFound:  "Lesson",
}

// wrapNotFound attaches the missing id to a not-found sentinel and passes
// other errors through.
func wrapNotFound(err, sentinel error, id string) error {
	if errors.Is(err, sentinel) {
		return &domain.NotFoundError{Entity: entityNames[sentinel], ID: id, Err: sentinel}
	}
	return err
}
