package memory

import (
	"context"

	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/repository"
)

type courseRepository struct {
	db *DB
}

func (r *courseRepository) Create(_ context.Context, course *domain.Course) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	course.ID = newID()
	course.Requests = 0
	course.CreatedAt, course.UpdatedAt = now, now
	r.db.courses[course.ID] = *course
	return nil
}

// Update keeps the stored owner and requests counter.
func (r *courseRepository) Update(_ context.Context, course *domain.Course) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.courses[course.ID]
	if !ok {
		return repository.ErrNotFound
	}
	course.OwnerID = existing.OwnerID
	course.Requests = existing.Requests
	course.CreatedAt = existing.CreatedAt
	course.UpdatedAt = r.db.now()
	r.db.courses[course.ID] = *course
	return nil
}

func (r *courseRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.courses[id]; !ok {
		return repository.ErrNotFound
	}
	r.db.dropCourse(id)
	return nil
}

func (r *courseRepository) GetByID(_ context.Context, id string) (*domain.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if c, ok := r.db.courses[id]; ok {
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (r *courseRepository) List(_ context.Context, q repository.ListQuery[repository.CourseFilter]) ([]domain.Course, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	limit, offset := q.Window()
	rows, total := selectRows(r.db.courses,
		func(c *domain.Course) bool {
			if !ownerMatches(c, q.OwnerID) || !equalFold(c.Country, q.Filter.Country) {
				return false
			}
			return q.Filter.Category == nil || c.Category == *q.Filter.Category
		},
		func(a, b *domain.Course) bool { return newerFirst(a.StartDate, b.StartDate, a.ID, b.ID) },
		limit, offset)
	return rows, total, nil
}

type courseViewRepository struct {
	db *DB
}

// RecordView checks and inserts under the write lock, so concurrent calls
// for the same pair store one view and bump the counter once.
func (r *courseViewRepository) RecordView(_ context.Context, userID, courseID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	course, ok := r.db.courses[courseID]
	if !ok {
		return false, repository.ErrNotFound
	}
	for _, v := range r.db.views {
		if v.UserID == userID && v.CourseID == courseID {
			return false, nil
		}
	}

	view := domain.CourseView{ID: newID(), UserID: userID, CourseID: courseID, ViewedAt: r.db.now()}
	r.db.views[view.ID] = view
	course.Requests++
	r.db.courses[courseID] = course
	return true, nil
}

func (r *courseViewRepository) CountByCourse(_ context.Context, courseID string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, v := range r.db.views {
		if v.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (r *courseViewRepository) List(_ context.Context, q repository.ListQuery[repository.CourseViewFilter]) ([]domain.CourseView, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	limit, offset := q.Window()
	rows, total := selectRows(r.db.views,
		func(v *domain.CourseView) bool {
			if !ownerMatches(v, q.OwnerID) {
				return false
			}
			return q.Filter.CourseID == nil || v.CourseID == *q.Filter.CourseID
		},
		func(a, b *domain.CourseView) bool { return newerFirst(a.ViewedAt, b.ViewedAt, a.ID, b.ID) },
		limit, offset)
	return rows, total, nil
}
