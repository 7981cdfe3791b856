package domain

import "time"

// FreeChapterLimit is the highest chapter order readable without premium access.
const FreeChapterLimit = 2

// Course is the top-level catalogue entry.
type Course struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageSrc    string    `json:"imageSrc"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Chapter belongs to a course and is ordered within it.
type Chapter struct {
	ID           string `json:"id"`
	CourseID     string `json:"courseId"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ChapterOrder int    `json:"chapterOrder"`
}

// Free reports whether the chapter is readable without premium access.
func (c *Chapter) Free() bool {
	return c.ChapterOrder <= FreeChapterLimit
}

// Lesson belongs to a chapter and is ordered within it.
type Lesson struct {
	ID          string `json:"id"`
	ChapterID   string `json:"chapterId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LessonOrder int    `json:"lessonOrder"`
}

// Enrollment links a user to a course. IsPremium unlocks every chapter.
type Enrollment struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	CourseID       string `json:"courseId"`
	ActiveLessonID string `json:"activeLessonId"`
	IsPremium      bool   `json:"isPremium"`
}
