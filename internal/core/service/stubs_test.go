package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kursownik/api/internal/core/domain"
)

var nopLog = zerolog.Nop()

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		r.seq++
		copy.ID = "u" + strconv.Itoa(r.seq)
	}
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Roles != nil {
		u.Roles = *upd.Roles
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// stubCatalog backs the course, chapter, lesson and enrollment repositories.
type stubCatalog struct {
	courses     map[string]*domain.Course
	chapters    map[string]*domain.Chapter
	lessons     map[string]*domain.Lesson
	enrollments map[string]*domain.Enrollment
	seq         int
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		courses:     make(map[string]*domain.Course),
		chapters:    make(map[string]*domain.Chapter),
		lessons:     make(map[string]*domain.Lesson),
		enrollments: make(map[string]*domain.Enrollment),
	}
}

func (c *stubCatalog) nextID(prefix string) string {
	c.seq++
	return prefix + strconv.Itoa(c.seq)
}

func (c *stubCatalog) addCourse(name string) *domain.Course {
	co := &domain.Course{ID: c.nextID("c"), Name: name}
	c.courses[co.ID] = co
	return co
}

func (c *stubCatalog) addChapter(courseID string, order int) *domain.Chapter {
	ch := &domain.Chapter{ID: c.nextID("ch"), CourseID: courseID, Name: "chapter " + strconv.Itoa(order), ChapterOrder: order}
	c.chapters[ch.ID] = ch
	return ch
}

func (c *stubCatalog) addLesson(chapterID string, order int) *domain.Lesson {
	l := &domain.Lesson{ID: c.nextID("l"), ChapterID: chapterID, Name: "lesson " + strconv.Itoa(order), LessonOrder: order}
	c.lessons[l.ID] = l
	return l
}

func (c *stubCatalog) courseRepo() *stubCourseRepo         { return &stubCourseRepo{c} }
func (c *stubCatalog) chapterRepo() *stubChapterRepo       { return &stubChapterRepo{c} }
func (c *stubCatalog) lessonRepo() *stubLessonRepo         { return &stubLessonRepo{c} }
func (c *stubCatalog) enrollmentRepo() *stubEnrollmentRepo { return &stubEnrollmentRepo{c} }

type stubCourseRepo struct{ *stubCatalog }

func (r *stubCourseRepo) Create(_ context.Context, co *domain.Course) error {
	co.ID = r.nextID("c")
	clone := *co
	r.courses[co.ID] = &clone
	return nil
}

func (r *stubCourseRepo) FindByID(_ context.Context, id string) (*domain.Course, error) {
	co, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	clone := *co
	return &clone, nil
}

func (r *stubCourseRepo) List(_ context.Context) ([]*domain.Course, error) {
	out := make([]*domain.Course, 0, len(r.courses))
	for _, co := range r.courses {
		clone := *co
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCourseRepo) Update(_ context.Context, co *domain.Course) error {
	if _, ok := r.courses[co.ID]; !ok {
		return domain.ErrCourseNotFound
	}
	clone := *co
	r.courses[co.ID] = &clone
	return nil
}

func (r *stubCourseRepo) Delete(_ context.Context, id string) error {
	delete(r.courses, id)
	for chID, ch := range r.chapters {
		if ch.CourseID == id {
			r.chapterRepo().Delete(context.Background(), chID)
		}
	}
	return nil
}

type stubChapterRepo struct{ *stubCatalog }

func (r *stubChapterRepo) Create(_ context.Context, ch *domain.Chapter) error {
	ch.ID = r.nextID("ch")
	clone := *ch
	r.chapters[ch.ID] = &clone
	return nil
}

func (r *stubChapterRepo) FindByID(_ context.Context, id string) (*domain.Chapter, error) {
	ch, ok := r.chapters[id]
	if !ok {
		return nil, domain.ErrChapterNotFound
	}
	clone := *ch
	return &clone, nil
}

func (r *stubChapterRepo) List(_ context.Context) ([]*domain.Chapter, error) {
	return r.filter(func(*domain.Chapter) bool { return true }), nil
}

func (r *stubChapterRepo) ListByCourse(_ context.Context, courseID string) ([]*domain.Chapter, error) {
	return r.filter(func(ch *domain.Chapter) bool { return ch.CourseID == courseID }), nil
}

func (r *stubChapterRepo) filter(keep func(*domain.Chapter) bool) []*domain.Chapter {
	out := []*domain.Chapter{}
	for _, ch := range r.chapters {
		if keep(ch) {
			clone := *ch
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChapterOrder != out[j].ChapterOrder {
			return out[i].ChapterOrder < out[j].ChapterOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *stubChapterRepo) MaxOrder(ctx context.Context, courseID string) (int, error) {
	max := 0
	for _, ch := range r.chapters {
		if ch.CourseID == courseID && ch.ChapterOrder > max {
			max = ch.ChapterOrder
		}
	}
	return max, nil
}

func (r *stubChapterRepo) Update(_ context.Context, ch *domain.Chapter) error {
	clone := *ch
	r.chapters[ch.ID] = &clone
	return nil
}

func (r *stubChapterRepo) Delete(_ context.Context, id string) error {
	delete(r.chapters, id)
	for lID, l := range r.lessons {
		if l.ChapterID == id {
			delete(r.lessons, lID)
		}
	}
	return nil
}

type stubLessonRepo struct{ *stubCatalog }

func (r *stubLessonRepo) Create(_ context.Context, l *domain.Lesson) error {
	l.ID = r.nextID("l")
	clone := *l
	r.lessons[l.ID] = &clone
	return nil
}

func (r *stubLessonRepo) FindByID(_ context.Context, id string) (*domain.Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return nil, domain.ErrLessonNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *stubLessonRepo) List(_ context.Context) ([]*domain.Lesson, error) {
	return r.filter(func(*domain.Lesson) bool { return true }), nil
}

func (r *stubLessonRepo) ListByChapter(_ context.Context, chapterID string) ([]*domain.Lesson, error) {
	return r.filter(func(l *domain.Lesson) bool { return l.ChapterID == chapterID }), nil
}

func (r *stubLessonRepo) filter(keep func(*domain.Lesson) bool) []*domain.Lesson {
	out := []*domain.Lesson{}
	for _, l := range r.lessons {
		if keep(l) {
			clone := *l
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LessonOrder != out[j].LessonOrder {
			return out[i].LessonOrder < out[j].LessonOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *stubLessonRepo) MaxOrder(_ context.Context, chapterID string) (int, error) {
	max := 0
	for _, l := range r.lessons {
		if l.ChapterID == chapterID && l.LessonOrder > max {
			max = l.LessonOrder
		}
	}
	return max, nil
}

func (r *stubLessonRepo) Update(_ context.Context, l *domain.Lesson) error {
	clone := *l
	r.lessons[l.ID] = &clone
	return nil
}

func (r *stubLessonRepo) Delete(_ context.Context, id string) error {
	delete(r.lessons, id)
	return nil
}

type stubEnrollmentRepo struct{ *stubCatalog }

func (r *stubEnrollmentRepo) Find(_ context.Context, userID, courseID string) (*domain.Enrollment, error) {
	for _, e := range r.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			clone := *e
			return &clone, nil
		}
	}
	return nil, domain.ErrEnrollmentNotFound
}

func (r *stubEnrollmentRepo) ListPremiumCourseIDs(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for _, e := range r.enrollments {
		if e.UserID == userID && e.IsPremium {
			ids = append(ids, e.CourseID)
		}
	}
	return ids, nil
}

func (r *stubEnrollmentRepo) Create(_ context.Context, e *domain.Enrollment) error {
	e.ID = r.nextID("e")
	clone := *e
	r.enrollments[e.ID] = &clone
	return nil
}

func (r *stubEnrollmentRepo) SetPremium(_ context.Context, id string, premium bool) error {
	e, ok := r.enrollments[id]
	if !ok {
		return domain.ErrEnrollmentNotFound
	}
	e.IsPremium = premium
	return nil
}

type stubRateRepo struct {
	rates     []*domain.Rate
	failCodes map[string]bool
}

func (r *stubRateRepo) Insert(_ context.Context, rate *domain.Rate) error {
	if r.failCodes[rate.Currency] {
		return context.DeadlineExceeded
	}
	clone := *rate
	r.rates = append(r.rates, &clone)
	return nil
}

func (r *stubRateRepo) Latest(_ context.Context, currency string) (*domain.Rate, error) {
	var latest *domain.Rate
	for _, rate := range r.rates {
		if rate.Currency == currency && (latest == nil || !rate.FetchedAt.Before(latest.FetchedAt)) {
			latest = rate
		}
	}
	if latest == nil {
		return nil, domain.ErrRateUnavailable
	}
	clone := *latest
	return &clone, nil
}

func (r *stubRateRepo) History(_ context.Context, currencies []string, limit int) ([]*domain.Rate, error) {
	want := strings.Join(currencies, ",")
	var out []*domain.Rate
	for i := len(r.rates) - 1; i >= 0 && len(out) < limit; i-- {
		if strings.Contains(want, r.rates[i].Currency) {
			clone := *r.rates[i]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubRateRepo) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	kept := r.rates[:0]
	var n int64
	for _, rate := range r.rates {
		if rate.FetchedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, rate)
	}
	r.rates = kept
	return n, nil
}

type stubRateCache struct {
	rates map[string]*domain.Rate
	gets  int
}

func newStubRateCache() *stubRateCache {
	return &stubRateCache{rates: make(map[string]*domain.Rate)}
}

func (c *stubRateCache) Get(_ context.Context, currency string) (*domain.Rate, bool, error) {
	c.gets++
	r, ok := c.rates[currency]
	if !ok {
		return nil, false, nil
	}
	clone := *r
	return &clone, true, nil
}

func (c *stubRateCache) Set(_ context.Context, r *domain.Rate) error {
	clone := *r
	c.rates[r.Currency] = &clone
	return nil
}

type stubPaymentRepo struct {
	payments []*domain.Payment
}

func (r *stubPaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	clone := *p
	r.payments = append(r.payments, &clone)
	return nil
}

type stubGuard struct {
	held     map[string]bool
	released int
}

func newStubGuard() *stubGuard {
	return &stubGuard{held: make(map[string]bool)}
}

func (g *stubGuard) Acquire(_ context.Context, userID, courseID string) (bool, error) {
	key := userID + ":" + courseID
	if g.held[key] {
		return false, nil
	}
	g.held[key] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, userID, courseID string) error {
	delete(g.held, userID+":"+courseID)
	g.released++
	return nil
}

type stubProvider struct {
	rates []domain.Rate
	err   error
}

func (p *stubProvider) FetchRates(context.Context) ([]domain.Rate, error) {
	return p.rates, p.err
}
