// @title           Kursownik API
// @version         1.0
// @description     Course platform with role-based access, premium chapters and PLN settlement of foreign-currency purchases.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"

	_ "github.com/kursownik/api/docs"
	"github.com/kursownik/api/internal/api"
	"github.com/kursownik/api/internal/api/handler"
	"github.com/kursownik/api/internal/core/service"
	"github.com/kursownik/api/internal/core/token"
	"github.com/kursownik/api/internal/infrastructure/config"
	mongostore "github.com/kursownik/api/internal/infrastructure/db/mongo"
	redisstore "github.com/kursownik/api/internal/infrastructure/db/redis"
	"github.com/kursownik/api/internal/infrastructure/nbp"
	"github.com/kursownik/api/internal/infrastructure/queue"
	"github.com/kursownik/api/internal/infrastructure/scheduler"
	"github.com/kursownik/api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Env:     cfg.Env,
		Service: "kursownik-api",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("graceful shutdown complete")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()
	log.Info().Str("db", cfg.Mongo.Database).Msg("mongo connected")

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		PoolSize:  cfg.Redis.PoolSize,
		OpTimeout: cfg.Redis.Timeout,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("redis connected")

	users := mongostore.NewUserRepository(db)
	courses := mongostore.NewCourseRepository(db)
	chapters := mongostore.NewChapterRepository(db)
	lessons := mongostore.NewLessonRepository(db)
	enrollments := mongostore.NewEnrollmentRepository(db)
	rates := mongostore.NewRateRepository(db)
	payments := mongostore.NewPaymentRepository(db)

	if err := mongostore.EnsureIndexes(ctx, users, chapters, enrollments, rates); err != nil {
		return err
	}

	issuer, err := newIssuer(cfg.Token)
	if err != nil {
		return err
	}
	if !cfg.Token.Signed {
		log.Warn().Msg("token signing disabled; tokens can be forged by anyone who knows the format")
	}

	access := service.NewPremiumAccess(enrollments)
	forexSvc := service.NewForexService(service.ForexDeps{
		Provider:    nbp.NewClient(cfg.Forex.BaseURL, cfg.Forex.Timeout),
		Rates:       rates,
		Cache:       redisstore.NewRateCache(rdb, cfg.Forex.CacheTTL),
		Payments:    payments,
		Courses:     courses,
		Chapters:    chapters,
		Lessons:     lessons,
		Enrollments: enrollments,
		Guard:       redisstore.NewPurchaseGuard(rdb),
	}, cfg.Forex.Currencies, logger.Component("forex"))

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("scheduler timezone: %w", err)
	}
	dispatcher := queue.NewDispatcher(0, logger.Component("dispatcher"))
	dispatcher.Start(ctx)
	sched := scheduler.New(
		scheduler.ForexJobs(forexSvc, cfg.Scheduler.Retention, nil),
		dispatcher,
		cfg.Scheduler.Enabled,
		logger.Component("scheduler"),
		scheduler.WithLocation(loc),
	)
	go sched.Run(ctx)

	e := api.NewRouter(api.Deps{
		Auth:        service.NewAuthService(users, issuer, logger.Component("auth")),
		Users:       service.NewUserService(users, logger.Component("user")),
		Courses:     service.NewCourseService(courses, chapters, logger.Component("course")),
		Chapters:    service.NewChapterService(courses, chapters, lessons, access, logger.Component("chapter")),
		Lessons:     service.NewLessonService(chapters, lessons, access, logger.Component("lesson")),
		Forex:       forexSvc,
		Schedule:    sched,
		Checks:      []handler.DependencyCheck{handler.MongoCheck(db), handler.RedisCheck(rdb)},
		CORSOrigins: cfg.CORSAllowedOrigins,
		Log:         log,
	})
	e.Debug = cfg.IsDevelopment()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("HTTP server started")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newIssuer(cfg config.TokenConfig) (*token.Issuer, error) {
	if !cfg.Signed {
		return token.NewIssuer(token.PlainCodec{}, cfg.Expiry()), nil
	}
	codec, err := token.NewSignedCodec(cfg.Secret)
	if err != nil {
		return nil, err
	}
	return token.NewIssuer(codec, cfg.Expiry()), nil
}
