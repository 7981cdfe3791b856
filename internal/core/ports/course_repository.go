package ports

import (
	"context"

	"github.com/kursownik/api/internal/core/domain"
)

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	Create(ctx context.Context, c *domain.Course) error
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	Update(ctx context.Context, c *domain.Course) error
	// Delete removes the course together with its chapters and their lessons.
	Delete(ctx context.Context, id string) error
}

// ChapterRepository defines persistence operations for chapters.
type ChapterRepository interface {
	Create(ctx context.Context, ch *domain.Chapter) error
	FindByID(ctx context.Context, id string) (*domain.Chapter, error)
	List(ctx context.Context) ([]*domain.Chapter, error)
	// ListByCourse returns the course's chapters ordered by ChapterOrder.
	ListByCourse(ctx context.Context, courseID string) ([]*domain.Chapter, error)
	// MaxOrder returns the highest ChapterOrder in the course, or 0.
	MaxOrder(ctx context.Context, courseID string) (int, error)
	Update(ctx context.Context, ch *domain.Chapter) error
	// Delete removes the chapter together with its lessons.
	Delete(ctx context.Context, id string) error
}

// LessonRepository defines persistence operations for lessons.
type LessonRepository interface {
	Create(ctx context.Context, l *domain.Lesson) error
	FindByID(ctx context.Context, id string) (*domain.Lesson, error)
	List(ctx context.Context) ([]*domain.Lesson, error)
	// ListByChapter returns the chapter's lessons ordered by LessonOrder.
	ListByChapter(ctx context.Context, chapterID string) ([]*domain.Lesson, error)
	// MaxOrder returns the highest LessonOrder in the chapter, or 0.
	MaxOrder(ctx context.Context, chapterID string) (int, error)
	Update(ctx context.Context, l *domain.Lesson) error
	Delete(ctx context.Context, id string) error
}

// EnrollmentRepository persists the user ↔ course link that carries premium access.
type EnrollmentRepository interface {
	// Find returns domain.ErrEnrollmentNotFound when the user is not enrolled.
	Find(ctx context.Context, userID, courseID string) (*domain.Enrollment, error)
	ListPremiumCourseIDs(ctx context.Context, userID string) ([]string, error)
	Create(ctx context.Context, e *domain.Enrollment) error
	SetPremium(ctx context.Context, id string, premium bool) error
}
