package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/ports"
)

type ChapterService struct {
	courses  ports.CourseRepository
	chapters ports.ChapterRepository
	lessons  ports.LessonRepository
	access   ports.AccessChecker
	log      zerolog.Logger
}

func NewChapterService(
	courses ports.CourseRepository,
	chapters ports.ChapterRepository,
	lessons ports.LessonRepository,
	access ports.AccessChecker,
	log zerolog.Logger,
) *ChapterService {
	return &ChapterService{courses: courses, chapters: chapters, lessons: lessons, access: access, log: log}
}

// Create adds a chapter to an existing course. Without an explicit order the
// chapter goes after the current last one.
func (s *ChapterService) Create(ctx context.Context, in ports.CreateChapterInput) (*domain.Chapter, error) {
	if _, err := s.courses.FindByID(ctx, in.CourseID); err != nil {
		return nil, wrapNotFound(err, domain.ErrCourseNotFound, in.CourseID)
	}

	order := 0
	if in.ChapterOrder != nil {
		order = *in.ChapterOrder
	} else {
		last, err := s.chapters.MaxOrder(ctx, in.CourseID)
		if err != nil {
			return nil, fmt.Errorf("create chapter: next order: %w", err)
		}
		order = last + 1
	}

	ch := &domain.Chapter{
		CourseID:     in.CourseID,
		Name:         in.Name,
		Description:  in.Description,
		ChapterOrder: order,
	}
	if err := s.chapters.Create(ctx, ch); err != nil {
		return nil, err
	}
	s.log.Info().Str("chapter_id", ch.ID).Str("course_id", ch.CourseID).Int("order", order).Msg("chapter created")
	return ch, nil
}

// List returns the chapters the caller may read.
func (s *ChapterService) List(ctx context.Context, caller domain.UserMetadata) ([]*domain.Chapter, error) {
	all, err := s.chapters.List(ctx)
	if err != nil {
		return nil, err
	}
	premium, err := s.access.PremiumCourses(ctx, caller)
	if err != nil {
		return nil, err
	}

	visible := make([]*domain.Chapter, 0, len(all))
	for _, ch := range all {
		if ch.Free() || premium.Has(ch.CourseID) {
			visible = append(visible, ch)
		}
	}
	return visible, nil
}

// Get returns the chapter with its lessons, or domain.ErrPremiumRequired
// when it is locked for the caller.
func (s *ChapterService) Get(ctx context.Context, caller domain.UserMetadata, id string) (*ports.ChapterDetail, error) {
	ch, err := s.findChapter(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ch.Free() {
		ok, err := s.access.HasPremium(ctx, caller, ch.CourseID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w to access this chapter", domain.ErrPremiumRequired)
		}
	}

	lessons, err := s.lessons.ListByChapter(ctx, ch.ID)
	if err != nil {
		return nil, fmt.Errorf("get chapter: list lessons: %w", err)
	}
	return &ports.ChapterDetail{Chapter: *ch, Lessons: lessons}, nil
}

func (s *ChapterService) Update(ctx context.Context, id string, in ports.UpdateChapterInput) (*domain.Chapter, error) {
	ch, err := s.findChapter(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CourseID != nil {
		if _, err := s.courses.FindByID(ctx, *in.CourseID); err != nil {
			return nil, wrapNotFound(err, domain.ErrCourseNotFound, *in.CourseID)
		}
		ch.CourseID = *in.CourseID
	}
	if in.Name != nil {
		ch.Name = *in.Name
	}
	if in.Description != nil {
		ch.Description = *in.Description
	}
	if in.ChapterOrder != nil {
		ch.ChapterOrder = *in.ChapterOrder
	}

	if err := s.chapters.Update(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *ChapterService) Delete(ctx context.Context, id string) error {
	if _, err := s.findChapter(ctx, id); err != nil {
		return err
	}
	if err := s.chapters.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("chapter_id", id).Msg("chapter deleted")
	return nil
}

func (s *ChapterService) findChapter(ctx context.Context, id string) (*domain.Chapter, error) {
	ch, err := s.chapters.FindByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, domain.ErrChapterNotFound, id)
	}
	return ch, nil
}
