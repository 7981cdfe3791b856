package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/ports"
)

type LessonService struct {
	chapters ports.ChapterRepository
	lessons  ports.LessonRepository
	access   ports.AccessChecker
	log      zerolog.Logger
}

func NewLessonService(
	chapters ports.ChapterRepository,
	lessons ports.LessonRepository,
	access ports.AccessChecker,
	log zerolog.Logger,
) *LessonService {
	return &LessonService{chapters: chapters, lessons: lessons, access: access, log: log}
}

// Create adds a lesson to an existing chapter. Without an explicit order the
// lesson goes after the current last one.
func (s *LessonService) Create(ctx context.Context, in ports.CreateLessonInput) (*domain.Lesson, error) {
	if _, err := s.chapters.FindByID(ctx, in.ChapterID); err != nil {
		return nil, wrapNotFound(err, domain.ErrChapterNotFound, in.ChapterID)
	}

	order := 0
	if in.LessonOrder != nil {
		order = *in.LessonOrder
	} else {
		last, err := s.lessons.MaxOrder(ctx, in.ChapterID)
		if err != nil {
			return nil, fmt.Errorf("create lesson: next order: %w", err)
		}
		order = last + 1
	}

	l := &domain.Lesson{
		ChapterID:   in.ChapterID,
		Name:        in.Name,
		Description: in.Description,
		LessonOrder: order,
	}
	if err := s.lessons.Create(ctx, l); err != nil {
		return nil, err
	}
	s.log.Info().Str("lesson_id", l.ID).Str("chapter_id", l.ChapterID).Int("order", order).Msg("lesson created")
	return l, nil
}

// List returns the lessons whose chapter the caller may read.
func (s *LessonService) List(ctx context.Context, caller domain.UserMetadata) ([]*domain.Lesson, error) {
	all, err := s.lessons.List(ctx)
	if err != nil {
		return nil, err
	}
	chapters, err := s.chapters.List(ctx)
	if err != nil {
		return nil, err
	}
	premium, err := s.access.PremiumCourses(ctx, caller)
	if err != nil {
		return nil, err
	}

	readable := make(map[string]bool, len(chapters))
	for _, ch := range chapters {
		readable[ch.ID] = ch.Free() || premium.Has(ch.CourseID)
	}

	visible := make([]*domain.Lesson, 0, len(all))
	for _, l := range all {
		if readable[l.ChapterID] {
			visible = append(visible, l)
		}
	}
	return visible, nil
}

// Get returns the lesson, or domain.ErrPremiumRequired when its chapter is
// locked for the caller.
func (s *LessonService) Get(ctx context.Context, caller domain.UserMetadata, id string) (*domain.Lesson, error) {
	l, err := s.findLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	ch, err := s.chapters.FindByID(ctx, l.ChapterID)
	if err != nil {
		return nil, wrapNotFound(err, domain.ErrChapterNotFound, l.ChapterID)
	}
	if !ch.Free() {
		ok, err := s.access.HasPremium(ctx, caller, ch.CourseID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w to access this lesson", domain.ErrPremiumRequired)
		}
	}
	return l, nil
}

func (s *LessonService) Update(ctx context.Context, id string, in ports.UpdateLessonInput) (*domain.Lesson, error) {
	l, err := s.findLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ChapterID != nil {
		if _, err := s.chapters.FindByID(ctx, *in.ChapterID); err != nil {
			return nil, wrapNotFound(err, domain.ErrChapterNotFound, *in.ChapterID)
		}
		l.ChapterID = *in.ChapterID
	}
	if in.Name != nil {
		l.Name = *in.Name
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	if in.LessonOrder != nil {
		l.LessonOrder = *in.LessonOrder
	}

	if err := s.lessons.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LessonService) Delete(ctx context.Context, id string) error {
	if _, err := s.findLesson(ctx, id); err != nil {
		return err
	}
	if err := s.lessons.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("lesson_id", id).Msg("lesson deleted")
	return nil
}

func (s *LessonService) findLesson(ctx context.Context, id string) (*domain.Lesson, error) {
	l, err := s.lessons.FindByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, domain.ErrLessonNotFound, id)
	}
	return l, nil
}
