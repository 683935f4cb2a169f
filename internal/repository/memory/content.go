package memory

import (
	"context"
	"fmt"

	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/repository"
)

type blogPostRepository struct {
	db *DB
}

func (r *blogPostRepository) slugTaken(slug, exceptID string) bool {
	for id, p := range r.db.posts {
		if id != exceptID && p.Slug == slug {
			return true
		}
	}
	return false
}

func (r *blogPostRepository) Create(_ context.Context, post *domain.BlogPost) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.slugTaken(post.Slug, "") {
		return fmt.Errorf("%w: blog_posts_slug_key", repository.ErrDuplicate)
	}
	now := r.db.now()
	post.ID = newID()
	post.CreatedAt, post.UpdatedAt = now, now
	r.db.posts[post.ID] = *post
	return nil
}

func (r *blogPostRepository) Update(_ context.Context, post *domain.BlogPost) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.posts[post.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.slugTaken(post.Slug, post.ID) {
		return fmt.Errorf("%w: blog_posts_slug_key", repository.ErrDuplicate)
	}
	post.OwnerID = existing.OwnerID
	post.CreatedAt = existing.CreatedAt
	post.UpdatedAt = r.db.now()
	r.db.posts[post.ID] = *post
	return nil
}

func (r *blogPostRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.posts, id)
	return nil
}

func (r *blogPostRepository) GetByID(_ context.Context, id string) (*domain.BlogPost, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if p, ok := r.db.posts[id]; ok {
		return &p, nil
	}
	return nil, repository.ErrNotFound
}

func (r *blogPostRepository) List(_ context.Context, q repository.ListQuery[repository.BlogPostFilter]) ([]domain.BlogPost, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	f := q.Filter
	limit, offset := q.Window()
	rows, total := selectRows(r.db.posts,
		func(p *domain.BlogPost) bool {
			if !ownerMatches(p, q.OwnerID) {
				return false
			}
			if f.Category != nil && p.Category != *f.Category {
				return false
			}
			created := day(p.CreatedAt)
			if f.CreatedOn != nil && !sameDay(created, *f.CreatedOn) {
				return false
			}
			if f.CreatedFrom != nil && created.Before(day(*f.CreatedFrom)) {
				return false
			}
			return f.CreatedTo == nil || !created.After(day(*f.CreatedTo))
		},
		func(a, b *domain.BlogPost) bool { return newerFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) },
		limit, offset)
	return rows, total, nil
}

type appointmentRepository struct {
	db *DB
}

func (r *appointmentRepository) Create(_ context.Context, appt *domain.Appointment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	appt.ID = newID()
	appt.CreatedAt = r.db.now()
	r.db.appointments[appt.ID] = *appt
	return nil
}

func (r *appointmentRepository) Update(_ context.Context, appt *domain.Appointment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.appointments[appt.ID]
	if !ok {
		return repository.ErrNotFound
	}
	appt.OwnerID = existing.OwnerID
	appt.CreatedAt = existing.CreatedAt
	r.db.appointments[appt.ID] = *appt
	return nil
}

func (r *appointmentRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.appointments, id)
	return nil
}

func (r *appointmentRepository) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if a, ok := r.db.appointments[id]; ok {
		return &a, nil
	}
	return nil, repository.ErrNotFound
}

func (r *appointmentRepository) List(_ context.Context, q repository.ListQuery[repository.AppointmentFilter]) ([]domain.Appointment, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	limit, offset := q.Window()
	rows, total := selectRows(r.db.appointments,
		func(a *domain.Appointment) bool { return ownerMatches(a, q.OwnerID) },
		func(a, b *domain.Appointment) bool {
			return newerFirst(a.PreferredDate, b.PreferredDate, a.ID, b.ID)
		},
		limit, offset)
	return rows, total, nil
}

type contactMessageRepository struct {
	db *DB
}

func (r *contactMessageRepository) Create(_ context.Context, msg *domain.ContactMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	msg.ID = newID()
	msg.SentAt = r.db.now()
	r.db.contacts[msg.ID] = *msg
	return nil
}

func (r *contactMessageRepository) Update(_ context.Context, msg *domain.ContactMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.contacts[msg.ID]
	if !ok {
		return repository.ErrNotFound
	}
	msg.OwnerID = existing.OwnerID
	msg.SentAt = existing.SentAt
	r.db.contacts[msg.ID] = *msg
	return nil
}

func (r *contactMessageRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.contacts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.contacts, id)
	return nil
}

func (r *contactMessageRepository) GetByID(_ context.Context, id string) (*domain.ContactMessage, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if m, ok := r.db.contacts[id]; ok {
		return &m, nil
	}
	return nil, repository.ErrNotFound
}

func (r *contactMessageRepository) List(_ context.Context, q repository.ListQuery[repository.ContactMessageFilter]) ([]domain.ContactMessage, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	limit, offset := q.Window()
	rows, total := selectRows(r.db.contacts,
		func(m *domain.ContactMessage) bool { return ownerMatches(m, q.OwnerID) },
		func(a, b *domain.ContactMessage) bool { return newerFirst(a.SentAt, b.SentAt, a.ID, b.ID) },
		limit, offset)
	return rows, total, nil
}

type testimonialRepository struct {
	db *DB
}

func (r *testimonialRepository) Create(_ context.Context, t *domain.Testimonial) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	t.ID = newID()
	t.CreatedAt, t.UpdatedAt = now, now
	r.db.testimonials[t.ID] = *t
	return nil
}

func (r *testimonialRepository) Update(_ context.Context, t *domain.Testimonial) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.testimonials[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	t.OwnerID = existing.OwnerID
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = r.db.now()
	r.db.testimonials[t.ID] = *t
	return nil
}

func (r *testimonialRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.testimonials[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.testimonials, id)
	return nil
}

func (r *testimonialRepository) GetByID(_ context.Context, id string) (*domain.Testimonial, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if t, ok := r.db.testimonials[id]; ok {
		return &t, nil
	}
	return nil, repository.ErrNotFound
}

func (r *testimonialRepository) List(_ context.Context, q repository.ListQuery[repository.TestimonialFilter]) ([]domain.Testimonial, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	limit, offset := q.Window()
	rows, total := selectRows(r.db.testimonials,
		func(t *domain.Testimonial) bool {
			return ownerMatches(t, q.OwnerID) && equalFold(t.University, q.Filter.University)
		},
		func(a, b *domain.Testimonial) bool { return newerFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) },
		limit, offset)
	return rows, total, nil
}
