package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/consulting-service/internal/config"
	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/events"
	"github.com/spec-kit/consulting-service/internal/observability"
	"github.com/spec-kit/consulting-service/internal/policy"
	"github.com/spec-kit/consulting-service/internal/repository"
	"github.com/spec-kit/consulting-service/internal/repository/memory"
)

type fixture struct {
	store        *repository.Store
	sessions     *memory.SessionStore
	dispatcher   events.Dispatcher
	accounts     *AccountService
	courses      *CourseService
	posts        *BlogPostService
	appointments *AppointmentService
	contacts     *ContactMessageService
	testimonials *TestimonialService
	stats        *StatsService
}

var testAuthConfig = config.AuthConfig{
	JWTSecret:             "test-secret",
	AccessTokenTTLMinutes: 5,
	RefreshTokenTTLHours:  1,
	BcryptCost:            4,
}

func newFixture(t *testing.T, opts policy.Options) *fixture {
	t.Helper()
	store := memory.NewStore(memory.NewDB())
	sessions := memory.NewSessionStore()
	engine := policy.NewEngine(policy.DefaultTable(opts))
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	return &fixture{
		store:      store,
		sessions:   sessions,
		dispatcher: dispatcher,
		accounts: NewAccountService(testAuthConfig, AccountDependencies{
			UserRepo:   store.Users,
			Sessions:   sessions,
			Policy:     engine,
			Dispatcher: dispatcher,
			Metrics:    metrics,
		}),
		courses: NewCourseService(ResourceDependencies[domain.Course, repository.CourseFilter]{
			Repo: store.Courses, Policy: engine, Dispatcher: dispatcher, Metrics: metrics,
		}, store.CourseViews),
		posts: NewBlogPostService(ResourceDependencies[domain.BlogPost, repository.BlogPostFilter]{
			Repo: store.BlogPosts, Policy: engine, Dispatcher: dispatcher, Metrics: metrics,
		}),
		appointments: NewAppointmentService(ResourceDependencies[domain.Appointment, repository.AppointmentFilter]{
			Repo: store.Appointments, Policy: engine, Dispatcher: dispatcher, Metrics: metrics,
		}),
		contacts: NewContactMessageService(ResourceDependencies[domain.ContactMessage, repository.ContactMessageFilter]{
			Repo: store.ContactMessages, Policy: engine, Dispatcher: dispatcher, Metrics: metrics,
		}),
		testimonials: NewTestimonialService(ResourceDependencies[domain.Testimonial, repository.TestimonialFilter]{
			Repo: store.Testimonials, Policy: engine, Dispatcher: dispatcher, Metrics: metrics,
		}),
		stats: NewStatsService(StatsDependencies{
			UserRepo: store.Users, CourseRepo: store.Courses, ViewRepo: store.CourseViews, Policy: engine,
		}),
	}
}

func (f *fixture) register(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := f.accounts.Register(context.Background(), NewUserInput{Email: email, Password: "pass-" + email})
	require.NoError(t, err)
	return u
}

func (f *fixture) admin(t *testing.T) *domain.User {
	t.Helper()
	u, err := f.accounts.CreateSuperuser(context.Background(), "root@example.com", "root-pass")
	require.NoError(t, err)
	return u
}

func (f *fixture) course(t *testing.T, owner *domain.User, title string) *domain.Course {
	t.Helper()
	c := &domain.Course{
		Title:         title,
		DurationWeeks: 8,
		Price:         "250.00",
		Country:       "Germany",
		Category:      domain.CourseCategoryLanguage,
		StartDate:     time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.courses.Create(context.Background(), owner, c))
	return c
}
