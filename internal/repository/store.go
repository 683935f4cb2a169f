package repository

import "github.com/jackc/pgx/v5/pgxpool"

// NewPostgresStore wires every Postgres repository over pool.
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Users:           NewUserRepository(pool),
		Courses:         NewCourseRepository(pool),
		BlogPosts:       NewBlogPostRepository(pool),
		Appointments:    NewAppointmentRepository(pool),
		ContactMessages: NewContactMessageRepository(pool),
		Testimonials:    NewTestimonialRepository(pool),
		CourseViews:     NewCourseViewRepository(pool),
	}
}
