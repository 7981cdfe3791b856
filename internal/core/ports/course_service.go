package ports

import (
	"context"

	"github.com/kursownik/api/internal/core/domain"
)

// CreateCourseInput carries the fields of a new course.
type CreateCourseInput struct {
	Name        string
	Description string
	ImageSrc    string
}

// UpdateCourseInput carries a partial course update.
type UpdateCourseInput struct {
	Name        *string
	Description *string
	ImageSrc    *string
}

// CourseDetail is a course with its chapters in order.
type CourseDetail struct {
	domain.Course
	Chapters []*domain.Chapter
}

// CreateChapterInput carries the fields of a new chapter. A nil order
// appends the chapter at the end of the course.
type CreateChapterInput struct {
	Name         string
	Description  string
	CourseID     string
	ChapterOrder *int
}

// UpdateChapterInput carries a partial chapter update.
type UpdateChapterInput struct {
	Name         *string
	Description  *string
	CourseID     *string
	ChapterOrder *int
}

// ChapterDetail is a chapter with its lessons in order.
type ChapterDetail struct {
	domain.Chapter
	Lessons []*domain.Lesson
}

// CreateLessonInput carries the fields of a new lesson. A nil order appends
// the lesson at the end of the chapter.
type CreateLessonInput struct {
	Name        string
	Description string
	ChapterID   string
	LessonOrder *int
}

// UpdateLessonInput carries a partial lesson update.
type UpdateLessonInput struct {
	Name        *string
	Description *string
	ChapterID   *string
	LessonOrder *int
}

type CourseService interface {
	Create(ctx context.Context, in CreateCourseInput) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	Get(ctx context.Context, id string) (*CourseDetail, error)
	Update(ctx context.Context, id string, in UpdateCourseInput) (*domain.Course, error)
	Delete(ctx context.Context, id string) error
}

// ChapterService reads are filtered by the caller's premium access.
type ChapterService interface {
	Create(ctx context.Context, in CreateChapterInput) (*domain.Chapter, error)
	List(ctx context.Context, caller domain.UserMetadata) ([]*domain.Chapter, error)
	Get(ctx context.Context, caller domain.UserMetadata, id string) (*ChapterDetail, error)
	Update(ctx context.Context, id string, in UpdateChapterInput) (*domain.Chapter, error)
	Delete(ctx context.Context, id string) error
}

// LessonService reads are filtered by the caller's premium access.
type LessonService interface {
	Create(ctx context.Context, in CreateLessonInput) (*domain.Lesson, error)
	List(ctx context.Context, caller domain.UserMetadata) ([]*domain.Lesson, error)
	Get(ctx context.Context, caller domain.UserMetadata, id string) (*domain.Lesson, error)
	Update(ctx context.Context, id string, in UpdateLessonInput) (*domain.Lesson, error)
	Delete(ctx context.Context, id string) error
}

// PremiumSet lists the courses a caller has premium access to. All is set
// for callers who bypass the check entirely.
type PremiumSet struct {
	All     bool
	Courses map[string]bool
}

// Has reports whether courseID is unlocked.
func (p PremiumSet) Has(courseID string) bool {
	return p.All || p.Courses[courseID]
}

// AccessChecker decides whether a caller may read premium content.
type AccessChecker interface {
	HasPremium(ctx context.Context, caller domain.UserMetadata, courseID string) (bool, error)
	PremiumCourses(ctx context.Context, caller domain.UserMetadata) (PremiumSet, error)
}
