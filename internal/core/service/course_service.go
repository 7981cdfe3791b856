package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/ports"
)

type CourseService struct {
	courses  ports.CourseRepository
	chapters ports.ChapterRepository
	log      zerolog.Logger
}

func NewCourseService(courses ports.CourseRepository, chapters ports.ChapterRepository, log zerolog.Logger) *CourseService {
	return &CourseService{courses: courses, chapters: chapters, log: log}
}

func (s *CourseService) Create(ctx context.Context, in ports.CreateCourseInput) (*domain.Course, error) {
	now := time.Now().UTC()
	c := &domain.Course{
		Name:        in.Name,
		Description: in.Description,
		ImageSrc:    in.ImageSrc,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.courses.Create(ctx, c); err != nil {
		s.log.Error().Err(err).Msg("failed to create course")
		return nil, err
	}
	s.log.Info().Str("course_id", c.ID).Msg("course created")
	return c, nil
}

func (s *CourseService) List(ctx context.Context) ([]*domain.Course, error) {
	return s.courses.List(ctx)
}

// Get returns the course with its chapters.
func (s *CourseService) Get(ctx context.Context, id string) (*ports.CourseDetail, error) {
	c, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	chapters, err := s.chapters.ListByCourse(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("get course: list chapters: %w", err)
	}
	return &ports.CourseDetail{Course: *c, Chapters: chapters}, nil
}

func (s *CourseService) Update(ctx context.Context, id string, in ports.UpdateCourseInput) (*domain.Course, error) {
	c, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.ImageSrc != nil {
		c.ImageSrc = *in.ImageSrc
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.courses.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.findCourse(ctx, id); err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("course_id", id).Msg("course deleted")
	return nil
}

func (s *CourseService) findCourse(ctx context.Context, id string) (*domain.Course, error) {
	c, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, domain.ErrCourseNotFound, id)
	}
	return c, nil
}
