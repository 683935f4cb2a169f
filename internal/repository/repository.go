package repository

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/consulting-service/internal/domain"
)

var (
	// ErrNotFound is returned when no row matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("record already exists")
)

// DefaultLimit applies when a query carries no limit.
const DefaultLimit = 20

// ListQuery narrows a listing. OwnerID, when set, restricts rows to one owner.
type ListQuery[F any] struct {
	OwnerID *string
	Filter  F
	Limit   int
	Offset  int
}

func (q ListQuery[F]) Window() (limit, offset int) {
	limit, offset = q.Limit, q.Offset
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// OwnedRepository is the storage contract shared by owner-scoped resources.
// List returns one page and the total number of matching rows.
type OwnedRepository[T any, F any] interface {
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, query ListQuery[F]) ([]T, int, error)
}

// UserFilter has no user-facing fields; owner scope matches the account id.
type UserFilter struct {
	Role *domain.Role
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	// Country matches case-insensitively.
	Country  *string
	Category *domain.CourseCategory
}

// BlogPostFilter narrows blog listings by category and creation day.
type BlogPostFilter struct {
	Category    *string
	CreatedOn   *time.Time
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AppointmentFilter is empty; appointments are only owner-scoped.
type AppointmentFilter struct{}

// ContactMessageFilter is empty; messages are only owner-scoped.
type ContactMessageFilter struct{}

// TestimonialFilter narrows testimonials by university, case-insensitively.
type TestimonialFilter struct {
	University *string
}

// CourseViewFilter narrows view records to a course.
type CourseViewFilter struct {
	CourseID *string
}

// UserRepository persists accounts.
type UserRepository interface {
	OwnedRepository[domain.User, UserFilter]
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	CountByRole(ctx context.Context, role domain.Role) (int, error)
}

// CourseRepository persists courses.
type CourseRepository interface {
	OwnedRepository[domain.Course, CourseFilter]
}

// BlogPostRepository persists blog posts.
type BlogPostRepository interface {
	OwnedRepository[domain.BlogPost, BlogPostFilter]
}

// AppointmentRepository persists appointments.
type AppointmentRepository interface {
	OwnedRepository[domain.Appointment, AppointmentFilter]
}

// ContactMessageRepository persists contact messages.
type ContactMessageRepository interface {
	OwnedRepository[domain.ContactMessage, ContactMessageFilter]
}

// TestimonialRepository persists testimonials.
type TestimonialRepository interface {
	OwnedRepository[domain.Testimonial, TestimonialFilter]
}

// CourseViewRepository records distinct (user, course) views.
type CourseViewRepository interface {
	// RecordView stores the view if absent and, only then, increments the
	// course's request counter. It reports whether a new view was stored.
	RecordView(ctx context.Context, userID, courseID string) (bool, error)
	CountByCourse(ctx context.Context, courseID string) (int, error)
	List(ctx context.Context, query ListQuery[CourseViewFilter]) ([]domain.CourseView, int, error)
}

// SessionStore keeps outstanding refresh tokens by hash.
type SessionStore interface {
	Save(ctx context.Context, session domain.RefreshSession) error
	// Consume returns and removes the session in one step.
	Consume(ctx context.Context, tokenHash string) (*domain.RefreshSession, error)
	RevokeUser(ctx context.Context, userID string) error
}

// Store bundles every repository of one storage driver.
type Store struct {
	Users           UserRepository
	Courses         CourseRepository
	BlogPosts       BlogPostRepository
	Appointments    AppointmentRepository
	ContactMessages ContactMessageRepository
	Testimonials    TestimonialRepository
	CourseViews     CourseViewRepository
}
