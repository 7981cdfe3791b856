package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kursownik/api/internal/api/middleware"
	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/ports"
	"github.com/kursownik/api/pkg/roles"
)

var (
	alice = domain.UserMetadata{ID: "u1", Email: "alice@example.com", Roles: "00100"}
	root  = domain.UserMetadata{ID: "u0", Email: "root@example.com", Roles: "10100"}
)

// newContext builds an echo context with the validator installed. A non-nil
// caller is injected the way the Auth middleware would.
func newContext(method, target, body string, caller *domain.UserMetadata) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != nil {
		c.Set(middleware.UserKey, *caller)
	}
	return c, rec
}

// httpCode returns the status carried by an *echo.HTTPError, or 0.
func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

type stubAuthService struct {
	signupFn      func(ctx context.Context, email, password string) (*domain.User, error)
	loginFn       func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	updateRolesFn func(ctx context.Context, caller domain.UserMetadata, userID string, rs []roles.Role) (*ports.UserRoles, error)
	listFn        func(ctx context.Context, caller domain.UserMetadata) ([]ports.UserRoles, error)
}

func (s *stubAuthService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	return s.signupFn(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ValidateToken(ctx context.Context, tok string) (*domain.UserMetadata, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubAuthService) UpdateUserRoles(ctx context.Context, caller domain.UserMetadata, userID string, rs []roles.Role) (*ports.UserRoles, error) {
	return s.updateRolesFn(ctx, caller, userID, rs)
}

func (s *stubAuthService) ListUsers(ctx context.Context, caller domain.UserMetadata) ([]ports.UserRoles, error) {
	return s.listFn(ctx, caller)
}

type stubUserService struct {
	getFn    func(ctx context.Context, id string) (*domain.UserMetadata, error)
	updateFn func(ctx context.Context, caller domain.UserMetadata, id string, in ports.UpdateUserInput) (*domain.UserMetadata, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.UserMetadata, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) Update(ctx context.Context, caller domain.UserMetadata, id string, in ports.UpdateUserInput) (*domain.UserMetadata, error) {
	return s.updateFn(ctx, caller, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubCourseService struct {
	ports.CourseService
	createFn func(ctx context.Context, in ports.CreateCourseInput) (*domain.Course, error)
	listFn   func(ctx context.Context) ([]*domain.Course, error)
	getFn    func(ctx context.Context, id string) (*ports.CourseDetail, error)
	updateFn func(ctx context.Context, id string, in ports.UpdateCourseInput) (*domain.Course, error)
}

func (s *stubCourseService) Create(ctx context.Context, in ports.CreateCourseInput) (*domain.Course, error) {
	return s.createFn(ctx, in)
}

func (s *stubCourseService) List(ctx context.Context) ([]*domain.Course, error) {
	return s.listFn(ctx)
}

func (s *stubCourseService) Get(ctx context.Context, id string) (*ports.CourseDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubCourseService) Update(ctx context.Context, id string, in ports.UpdateCourseInput) (*domain.Course, error) {
	return s.updateFn(ctx, id, in)
}

type stubChapterService struct {
	ports.ChapterService
	createFn func(ctx context.Context, in ports.CreateChapterInput) (*domain.Chapter, error)
	getFn    func(ctx context.Context, caller domain.UserMetadata, id string) (*ports.ChapterDetail, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubChapterService) Create(ctx context.Context, in ports.CreateChapterInput) (*domain.Chapter, error) {
	return s.createFn(ctx, in)
}

func (s *stubChapterService) Get(ctx context.Context, caller domain.UserMetadata, id string) (*ports.ChapterDetail, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubChapterService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubLessonService struct {
	ports.LessonService
	listFn func(ctx context.Context, caller domain.UserMetadata) ([]*domain.Lesson, error)
	getFn  func(ctx context.Context, caller domain.UserMetadata, id string) (*domain.Lesson, error)
}

func (s *stubLessonService) List(ctx context.Context, caller domain.UserMetadata) ([]*domain.Lesson, error) {
	return s.listFn(ctx, caller)
}

func (s *stubLessonService) Get(ctx context.Context, caller domain.UserMetadata, id string) (*domain.Lesson, error) {
	return s.getFn(ctx, caller, id)
}

type stubForexService struct {
	ports.ForexService
	fetchFn    func(ctx context.Context) (*ports.FetchRatesResult, error)
	historyFn  func(ctx context.Context, currency string, limit int) ([]domain.Rate, error)
	purchaseFn func(ctx context.Context, in ports.PurchaseInput) (*ports.PurchaseResult, error)
}

func (s *stubForexService) FetchCurrentRates(ctx context.Context) (*ports.FetchRatesResult, error) {
	return s.fetchFn(ctx)
}

func (s *stubForexService) RatesHistory(ctx context.Context, currency string, limit int) ([]domain.Rate, error) {
	return s.historyFn(ctx, currency, limit)
}

func (s *stubForexService) PurchaseCourse(ctx context.Context, in ports.PurchaseInput) (*ports.PurchaseResult, error) {
	return s.purchaseFn(ctx, in)
}

type stubReporter struct {
	status ports.ScheduleStatus
}

func (s stubReporter) Status() ports.ScheduleStatus { return s.status }
