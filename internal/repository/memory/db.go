// Package memory is the in-process storage driver. Every table lives behind
// one lock so that multi-table writes (cascades, view recording) are atomic.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/repository"
)

// DB holds every table of the memory driver.
type DB struct {
	mu           sync.RWMutex
	users        map[string]domain.User
	courses      map[string]domain.Course
	posts        map[string]domain.BlogPost
	appointments map[string]domain.Appointment
	contacts     map[string]domain.ContactMessage
	testimonials map[string]domain.Testimonial
	views        map[string]domain.CourseView
	now          func() time.Time
}

// NewDB returns an empty database.
func NewDB() *DB {
	return &DB{
		users:        make(map[string]domain.User),
		courses:      make(map[string]domain.Course),
		posts:        make(map[string]domain.BlogPost),
		appointments: make(map[string]domain.Appointment),
		contacts:     make(map[string]domain.ContactMessage),
		testimonials: make(map[string]domain.Testimonial),
		views:        make(map[string]domain.CourseView),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// NewStore wires every memory repository over db.
func NewStore(db *DB) *repository.Store {
	return &repository.Store{
		Users:           &userRepository{db: db},
		Courses:         &courseRepository{db: db},
		BlogPosts:       &blogPostRepository{db: db},
		Appointments:    &appointmentRepository{db: db},
		ContactMessages: &contactMessageRepository{db: db},
		Testimonials:    &testimonialRepository{db: db},
		CourseViews:     &courseViewRepository{db: db},
	}
}

func newID() string {
	return uuid.NewString()
}

// selectRows filters, orders and pages a table. less must be a strict order.
func selectRows[T any](table map[string]T, keep func(*T) bool, less func(a, b *T) bool, limit, offset int) ([]T, int) {
	rows := make([]T, 0, len(table))
	for _, row := range table {
		if keep(&row) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return less(&rows[i], &rows[j]) })

	total := len(rows)
	if offset >= total {
		return []T{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return rows[offset:end], total
}

func ownerMatches(owner domain.Owned, want *string) bool {
	if want == nil {
		return true
	}
	ref := owner.OwnerRef()
	return ref != nil && *ref == *want
}

// newerFirst orders by a descending timestamp with id as tiebreaker.
func newerFirst(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA < idB
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func equalFold(value string, want *string) bool {
	return want == nil || strings.EqualFold(value, *want)
}

// cascadeUser removes or orphans everything owned by userID. Caller holds mu.
func (db *DB) cascadeUser(userID string) {
	for id, c := range db.courses {
		if c.OwnerID == userID {
			db.dropCourse(id)
		}
	}
	for id, p := range db.posts {
		if p.OwnerID == userID {
			delete(db.posts, id)
		}
	}
	for id, m := range db.contacts {
		if m.OwnerID == userID {
			delete(db.contacts, id)
		}
	}
	for id, t := range db.testimonials {
		if t.OwnerID == userID {
			delete(db.testimonials, id)
		}
	}
	for id, v := range db.views {
		if v.UserID == userID {
			delete(db.views, id)
		}
	}
	for id, a := range db.appointments {
		if a.OwnerID != nil && *a.OwnerID == userID {
			a.OwnerID = nil
			db.appointments[id] = a
		}
	}
}

// dropCourse removes a course and its view records. Caller holds mu.
func (db *DB) dropCourse(courseID string) {
	delete(db.courses, courseID)
	for id, v := range db.views {
		if v.CourseID == courseID {
			delete(db.views, id)
		}
	}
}
