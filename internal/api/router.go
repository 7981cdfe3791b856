package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/kursownik/api/internal/api/handler"
	"github.com/kursownik/api/internal/api/middleware"
	"github.com/kursownik/api/internal/core/ports"
	"github.com/kursownik/api/pkg/roles"
)

// Deps carries everything the router hands out to handlers.
type Deps struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Courses  ports.CourseService
	Chapters ports.ChapterService
	Lessons  ports.LessonService
	Forex    ports.ForexService
	Schedule ports.ScheduleReporter

	Checks      []handler.DependencyCheck
	CORSOrigins []string
	Log         zerolog.Logger

	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(middleware.CORS(d.CORSOrigins))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "kursownik",
		Subsystem:  "http",
		Registerer: registerer(d.Registry),
	}))

	authn := middleware.Auth(d.Auth)
	admin := middleware.RequireRoles(roles.Admin)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer(d.Registry),
	}))
	e.GET("/api/*", echoSwagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Checks...)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.PUT("/users/roles", authHandler.UpdateUserRoles, authn, admin)
	auth.GET("/users", authHandler.ListUsers, authn, admin)

	// --- Users ---
	userHandler := handler.NewUserHandler(d.Users)
	user := e.Group("/user", authn)
	user.GET("/:id", userHandler.Get)
	user.PATCH("/:id", userHandler.Patch)
	user.DELETE("/:id", userHandler.Delete, admin)

	// --- Catalogue ---
	courseHandler := handler.NewCourseHandler(d.Courses)
	course := e.Group("/course")
	course.GET("", courseHandler.List)
	course.GET("/:id", courseHandler.Get)
	course.POST("", courseHandler.Create, authn, admin)
	course.PATCH("/:id", courseHandler.Patch, authn, admin)
	course.DELETE("/:id", courseHandler.Delete, authn, admin)

	chapterHandler := handler.NewChapterHandler(d.Chapters)
	chapter := e.Group("/chapter", authn)
	chapter.GET("", chapterHandler.List)
	chapter.GET("/:id", chapterHandler.Get)
	chapter.POST("", chapterHandler.Create, admin)
	chapter.PATCH("/:id", chapterHandler.Patch, admin)
	chapter.DELETE("/:id", chapterHandler.Delete, admin)

	lessonHandler := handler.NewLessonHandler(d.Lessons)
	lesson := e.Group("/lesson", authn)
	lesson.GET("", lessonHandler.List)
	lesson.GET("/:id", lessonHandler.Get)
	lesson.POST("", lessonHandler.Create, admin)
	lesson.PATCH("/:id", lessonHandler.Patch, admin)
	lesson.DELETE("/:id", lessonHandler.Delete, admin)

	// --- Forex ---
	forexHandler := handler.NewForexHandler(d.Forex, d.Schedule)
	forex := e.Group("/forex")
	forex.POST("/fetch", forexHandler.Fetch)
	forex.GET("/latest", forexHandler.Latest)
	forex.GET("/history", forexHandler.History)
	forex.GET("/schedule/status", forexHandler.ScheduleStatus)
	forex.POST("/purchase", forexHandler.Purchase, authn)

	return e
}

func registerer(r *prometheus.Registry) prometheus.Registerer {
	if r == nil {
		return prometheus.DefaultRegisterer
	}
	return r
}

func gatherer(r *prometheus.Registry) prometheus.Gatherer {
	if r == nil {
		return prometheus.DefaultGatherer
	}
	return r
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
