package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/consulting-service/internal/api/http"
	"github.com/spec-kit/consulting-service/internal/api/http/handlers"
	"github.com/spec-kit/consulting-service/internal/auth"
	"github.com/spec-kit/consulting-service/internal/config"
	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/events"
	"github.com/spec-kit/consulting-service/internal/observability"
	"github.com/spec-kit/consulting-service/internal/persistence"
	"github.com/spec-kit/consulting-service/internal/policy"
	"github.com/spec-kit/consulting-service/internal/repository"
	"github.com/spec-kit/consulting-service/internal/repository/memory"
	"github.com/spec-kit/consulting-service/internal/service"
	"github.com/spec-kit/consulting-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	var (
		store    *repository.Store
		sessions repository.SessionStore
		checks   []handlers.DependencyCheck
	)
	switch cfg.App.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		store = memory.NewStore(memory.NewDB())
		sessions = memory.NewSessionStore()
	default:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		if pg.PoolHandle() == nil {
			logger.Fatal("POSTGRES_DSN is required for the postgres storage driver")
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()

		store = repository.NewPostgresStore(pg.PoolHandle())
		sessions = repository.NewRedisSessionStore(redis.Client)
		checks = append(checks,
			handlers.DependencyCheck{Name: "postgres", Ping: pg.Ping},
			handlers.DependencyCheck{Name: "redis", Ping: redis.Ping},
		)
	}

	engine := policy.NewEngine(policy.DefaultTable(policy.Options{
		CoursesPublicRead:  cfg.Policy.CoursesPublicRead,
		CoursesAdminCreate: cfg.Policy.CoursesAdminCreate,
		BlogPublicRead:     cfg.Policy.BlogPublicRead,
		BlogStrict:         cfg.Policy.BlogStrict,
		ContactsStrict:     cfg.Policy.ContactsStrict,
	}))

	notifier := worker.NewNotificationWorker(events.NewInMemoryDispatcher(), logger, 2, 256)
	notifier.Start(ctx, service.NewNotificationService(notifier, logger, cfg.Notification))

	accounts := service.NewAccountService(cfg.Auth, service.AccountDependencies{
		UserRepo:   store.Users,
		Sessions:   sessions,
		Policy:     engine,
		Dispatcher: notifier,
		Metrics:    metrics,
		Logger:     logger,
	})
	courses := service.NewCourseService(service.ResourceDependencies[domain.Course, repository.CourseFilter]{
		Repo: store.Courses, Policy: engine, Dispatcher: notifier, Metrics: metrics, Logger: logger,
	}, store.CourseViews)
	posts := service.NewBlogPostService(service.ResourceDependencies[domain.BlogPost, repository.BlogPostFilter]{
		Repo: store.BlogPosts, Policy: engine, Dispatcher: notifier, Metrics: metrics, Logger: logger,
	})
	appointments := service.NewAppointmentService(service.ResourceDependencies[domain.Appointment, repository.AppointmentFilter]{
		Repo: store.Appointments, Policy: engine, Dispatcher: notifier, Metrics: metrics, Logger: logger,
	})
	contacts := service.NewContactMessageService(service.ResourceDependencies[domain.ContactMessage, repository.ContactMessageFilter]{
		Repo: store.ContactMessages, Policy: engine, Dispatcher: notifier, Metrics: metrics, Logger: logger,
	})
	testimonials := service.NewTestimonialService(service.ResourceDependencies[domain.Testimonial, repository.TestimonialFilter]{
		Repo: store.Testimonials, Policy: engine, Dispatcher: notifier, Metrics: metrics, Logger: logger,
	})
	stats := service.NewStatsService(service.StatsDependencies{
		UserRepo:   store.Users,
		CourseRepo: store.Courses,
		ViewRepo:   store.CourseViews,
		Policy:     engine,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks...),
		Users:           handlers.NewUsersHandler(accounts),
		Courses:         handlers.NewCoursesHandler(courses),
		BlogPosts:       handlers.NewBlogPostsHandler(posts),
		Appointments:    handlers.NewAppointmentsHandler(appointments),
		ContactMessages: handlers.NewContactMessagesHandler(contacts),
		Testimonials:    handlers.NewTestimonialsHandler(testimonials),
		Stats:           handlers.NewStatsHandler(stats),
		AuthMiddleware:  auth.NewAuthMiddleware(accounts.TokenManager(), store.Users),
		Metrics:         metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	notifier.Stop()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
