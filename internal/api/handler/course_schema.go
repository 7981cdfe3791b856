package handler

import (
	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/ports"
)

type createCourseRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	ImageSrc    string `json:"imageSrc"    validate:"required"`
}

type updateCourseRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	ImageSrc    *string `json:"imageSrc"`
}

type courseDetailResponse struct {
	domain.Course
	Chapters []*domain.Chapter `json:"chapters"`
}

type createChapterRequest struct {
	Name         string `json:"name"         validate:"required,max=200"`
	Description  string `json:"description"  validate:"required"`
	CourseID     string `json:"courseId"     validate:"required"`
	ChapterOrder *int   `json:"chapterOrder" validate:"omitempty,min=1"`
}

type updateChapterRequest struct {
	Name         *string `json:"name"         validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description"`
	CourseID     *string `json:"courseId"     validate:"omitempty,min=1"`
	ChapterOrder *int    `json:"chapterOrder" validate:"omitempty,min=1"`
}

type chapterDetailResponse struct {
	domain.Chapter
	Lessons []*domain.Lesson `json:"lessons"`
}

type createLessonRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	ChapterID   string `json:"chapterId"   validate:"required"`
	LessonOrder *int   `json:"lessonOrder" validate:"omitempty,min=1"`
}

type updateLessonRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	ChapterID   *string `json:"chapterId"   validate:"omitempty,min=1"`
	LessonOrder *int    `json:"lessonOrder" validate:"omitempty,min=1"`
}

func toCourseDetail(d *ports.CourseDetail) courseDetailResponse {
	return courseDetailResponse{Course: d.Course, Chapters: nonNil(d.Chapters)}
}

func toChapterDetail(d *ports.ChapterDetail) chapterDetailResponse {
	return chapterDetailResponse{Chapter: d.Chapter, Lessons: nonNil(d.Lessons)}
}

// nonNil keeps empty lists rendering as [] instead of null.
func nonNil[T any](items []*T) []*T {
	if items == nil {
		return []*T{}
	}
	return items
}
