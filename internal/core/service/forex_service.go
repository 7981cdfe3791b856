package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kursownik/api/internal/api/metrics"
	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/ports"
)

const defaultHistoryLimit = 10

// ForexDeps groups the collaborators of ForexService.
type ForexDeps struct {
	Provider    ports.RateProvider
	Rates       ports.RateRepository
	Cache       ports.RateCache
	Payments    ports.PaymentRepository
	Courses     ports.CourseRepository
	Chapters    ports.ChapterRepository
	Lessons     ports.LessonRepository
	Enrollments ports.EnrollmentRepository
	Guard       ports.PurchaseGuard
}

// ForexService keeps exchange rates fresh and settles course purchases in PLN.
type ForexService struct {
	ForexDeps
	currencies []string
	log        zerolog.Logger
	now        func() time.Time
}

// NewForexService tracks the given currencies (ISO codes, any case).
func NewForexService(deps ForexDeps, currencies []string, log zerolog.Logger) *ForexService {
	normalized := make([]string, 0, len(currencies))
	for _, c := range currencies {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			normalized = append(normalized, c)
		}
	}
	return &ForexService{ForexDeps: deps, currencies: normalized, log: log, now: time.Now}
}

func (s *ForexService) tracked(code string) bool {
	for _, c := range s.currencies {
		if c == code {
			return true
		}
	}
	return false
}

// FetchCurrentRates pulls the upstream table and stores the tracked
// currencies. A currency that fails to persist is logged and skipped.
func (s *ForexService) FetchCurrentRates(ctx context.Context) (*ports.FetchRatesResult, error) {
	start := s.now()
	s.log.Info().Msg("fetching current currency rates")

	table, err := s.Provider.FetchRates(ctx)
	if err != nil {
		metrics.RateFetchesTotal.WithLabelValues("upstream_error").Inc()
		s.log.Error().Err(err).Msg("failed to fetch currency rates")
		return nil, fmt.Errorf("%w: %v", domain.ErrRatesUpstream, err)
	}

	fetchedAt := s.now().UTC()
	saved := make([]domain.Rate, 0, len(s.currencies))
	for _, r := range table {
		code := strings.ToUpper(r.Currency)
		if !s.tracked(code) {
			continue
		}
		rate := &domain.Rate{Currency: code, Rate: r.Rate, FetchedAt: fetchedAt}
		if err := s.Rates.Insert(ctx, rate); err != nil {
			s.log.Error().Err(err).Str("currency", code).Msg("failed to save rate")
			continue
		}
		if err := s.Cache.Set(ctx, rate); err != nil {
			s.log.Warn().Err(err).Str("currency", code).Msg("failed to cache rate")
		}
		s.log.Debug().Str("currency", code).Float64("rate", r.Rate).Msg("rate saved")
		saved = append(saved, *rate)
	}

	if len(saved) == 0 {
		metrics.RateFetchesTotal.WithLabelValues("empty").Inc()
		return nil, fmt.Errorf("%w: no target currencies found in response", domain.ErrRatesUpstream)
	}

	metrics.RateFetchesTotal.WithLabelValues("ok").Inc()
	metrics.RateFetchDuration.Observe(s.now().Sub(start).Seconds())
	s.log.Info().Int("count", len(saved)).Msg("currency rates fetched")

	return &ports.FetchRatesResult{FetchedCount: len(saved), Rates: saved, FetchedAt: fetchedAt}, nil
}

// LatestRates returns the newest rate per tracked currency. Currencies that
// were never fetched are omitted.
func (s *ForexService) LatestRates(ctx context.Context) ([]domain.Rate, error) {
	out := make([]domain.Rate, 0, len(s.currencies))
	for _, code := range s.currencies {
		r, err := s.latest(ctx, code)
		if errors.Is(err, domain.ErrRateUnavailable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// latest reads through the cache to the repository.
func (s *ForexService) latest(ctx context.Context, code string) (*domain.Rate, error) {
	if r, ok, err := s.Cache.Get(ctx, code); err != nil {
		s.log.Warn().Err(err).Str("currency", code).Msg("rate cache read failed, falling back to database")
	} else if ok {
		return r, nil
	}

	r, err := s.Rates.Latest(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Set(ctx, r); err != nil {
		s.log.Warn().Err(err).Str("currency", code).Msg("failed to cache rate")
	}
	return r, nil
}

func (s *ForexService) RatesHistory(ctx context.Context, currency string, limit int) ([]domain.Rate, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	codes := s.currencies
	if currency != "" {
		codes = []string{strings.ToUpper(currency)}
	}

	rates, err := s.Rates.History(ctx, codes, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Rate, 0, len(rates))
	for _, r := range rates {
		out = append(out, *r)
	}
	return out, nil
}

// PurchaseCourse settles a purchase and grants premium access. Foreign
// amounts are converted with the latest stored rate.
func (s *ForexService) PurchaseCourse(ctx context.Context, in ports.PurchaseInput) (*ports.PurchaseResult, error) {
	currency := strings.ToUpper(in.Currency)
	log := s.log.With().Str("user_id", in.UserID).Str("course_id", in.CourseID).Logger()
	log.Info().Str("currency", currency).Float64("amount", in.Amount).Msg("processing course purchase")

	acquired, err := s.Guard.Acquire(ctx, in.UserID, in.CourseID)
	if err != nil {
		log.Warn().Err(err).Msg("purchase guard unavailable, processing anyway")
	} else if !acquired {
		metrics.PurchasesTotal.WithLabelValues(currency, "in_progress").Inc()
		return nil, domain.ErrPurchaseInProgress
	} else {
		defer func() {
			if err := s.Guard.Release(context.WithoutCancel(ctx), in.UserID, in.CourseID); err != nil {
				log.Warn().Err(err).Msg("failed to release purchase guard")
			}
		}()
	}

	result, err := s.purchase(ctx, in, currency)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues(currency, "failed").Inc()
		log.Error().Err(err).Msg("course purchase failed")
		return nil, err
	}

	metrics.PurchasesTotal.WithLabelValues(currency, "completed").Inc()
	log.Info().Str("payment_id", result.PaymentID).Msg("course purchase completed")
	return result, nil
}

func (s *ForexService) purchase(ctx context.Context, in ports.PurchaseInput, currency string) (*ports.PurchaseResult, error) {
	course, err := s.Courses.FindByID(ctx, in.CourseID)
	if err != nil {
		return nil, wrapNotFound(err, domain.ErrCourseNotFound, in.CourseID)
	}

	enrollment, err := s.Enrollments.Find(ctx, in.UserID, in.CourseID)
	switch {
	case errors.Is(err, domain.ErrEnrollmentNotFound):
		enrollment = nil
	case err != nil:
		return nil, fmt.Errorf("purchase: find enrollment: %w", err)
	case enrollment.IsPremium:
		return nil, domain.ErrAlreadyPremium
	}

	plnAmount := in.Amount
	var exchangeRate *float64
	if currency != domain.BaseCurrency {
		if !s.tracked(currency) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, currency)
		}
		r, err := s.latest(ctx, currency)
		if errors.Is(err, domain.ErrRateUnavailable) {
			return nil, fmt.Errorf("%w: exchange rate for %s not available, fetch latest rates first", domain.ErrRateUnavailable, currency)
		}
		if err != nil {
			return nil, fmt.Errorf("purchase: rate lookup: %w", err)
		}
		rate := r.Rate
		exchangeRate = &rate
		plnAmount = roundGrosz(in.Amount * rate)
	}

	// A new enrollment starts at the first lesson, so the course needs content
	// before any money is recorded.
	var firstLessonID string
	if enrollment == nil {
		if firstLessonID, err = s.firstLesson(ctx, course.ID); err != nil {
			return nil, err
		}
	}

	description := in.Description
	if description == "" {
		description = "Premium access to course: " + course.Name
	}
	payment := &domain.Payment{
		ID:               uuid.NewString(),
		UserID:           in.UserID,
		CourseID:         course.ID,
		Title:            "Course Purchase: " + course.Name,
		Description:      description,
		OriginalAmount:   in.Amount,
		OriginalCurrency: currency,
		PLNAmount:        plnAmount,
		ExchangeRate:     exchangeRate,
		Status:           domain.PaymentStatusCompleted,
		ProcessedAt:      s.now().UTC(),
	}
	if err := s.Payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("purchase: create payment: %w", err)
	}

	if enrollment != nil {
		err = s.Enrollments.SetPremium(ctx, enrollment.ID, true)
	} else {
		err = s.Enrollments.Create(ctx, &domain.Enrollment{
			UserID:         in.UserID,
			CourseID:       course.ID,
			ActiveLessonID: firstLessonID,
			IsPremium:      true,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("purchase: grant premium: %w", err)
	}

	return &ports.PurchaseResult{
		PaymentID:        payment.ID,
		CourseID:         payment.CourseID,
		OriginalAmount:   payment.OriginalAmount,
		OriginalCurrency: payment.OriginalCurrency,
		PLNAmount:        payment.PLNAmount,
		ExchangeRate:     payment.ExchangeRate,
		Status:           payment.Status,
		ProcessedAt:      payment.ProcessedAt,
	}, nil
}

func (s *ForexService) firstLesson(ctx context.Context, courseID string) (string, error) {
	chapters, err := s.Chapters.ListByCourse(ctx, courseID)
	if err != nil {
		return "", fmt.Errorf("purchase: list chapters: %w", err)
	}
	if len(chapters) == 0 {
		return "", fmt.Errorf("%w: course has no chapters", domain.ErrCourseEmpty)
	}
	lessons, err := s.Lessons.ListByChapter(ctx, chapters[0].ID)
	if err != nil {
		return "", fmt.Errorf("purchase: list lessons: %w", err)
	}
	if len(lessons) == 0 {
		return "", fmt.Errorf("%w: course has no lessons", domain.ErrCourseEmpty)
	}
	return lessons[0].ID, nil
}

func (s *ForexService) PruneRates(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.Rates.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune rates: %w", err)
	}
	s.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("old rates pruned")
	return n, nil
}

func roundGrosz(v float64) float64 {
	return math.Round(v*100) / 100
}
