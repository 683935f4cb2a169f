package memory

import (
	"context"
	"fmt"

	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/repository"
)

type userRepository struct {
	db *DB
}

func (r *userRepository) emailTaken(email, exceptID string) bool {
	for id, u := range r.db.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return fmt.Errorf("%w: users_email_key", repository.ErrDuplicate)
	}
	user.ID = newID()
	user.CreatedAt = r.db.now()
	r.db.users[user.ID] = *user
	return nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return fmt.Errorf("%w: users_email_key", repository.ErrDuplicate)
	}
	user.CreatedAt = existing.CreatedAt
	r.db.users[user.ID] = *user
	return nil
}

func (r *userRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.users, id)
	r.db.cascadeUser(id)
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if u, ok := r.db.users[id]; ok {
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) CountByRole(_ context.Context, role domain.Role) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, u := range r.db.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *userRepository) List(_ context.Context, q repository.ListQuery[repository.UserFilter]) ([]domain.User, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	limit, offset := q.Window()
	rows, total := selectRows(r.db.users,
		func(u *domain.User) bool {
			if q.OwnerID != nil && u.ID != *q.OwnerID {
				return false
			}
			return q.Filter.Role == nil || u.Role == *q.Filter.Role
		},
		func(a, b *domain.User) bool { return newerFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) },
		limit, offset)
	return rows, total, nil
}
