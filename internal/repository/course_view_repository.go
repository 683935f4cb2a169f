package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consulting-service/internal/domain"
)

type courseViewRepository struct {
	pool *pgxpool.Pool
}

// NewCourseViewRepository returns a Postgres-backed implementation.
func NewCourseViewRepository(pool *pgxpool.Pool) CourseViewRepository {
	return &courseViewRepository{pool: pool}
}

// RecordView relies on the (user_id, course_id) unique index: a concurrent
// duplicate insert affects zero rows and leaves the counter untouched.
func (r *courseViewRepository) RecordView(ctx context.Context, userID, courseID string) (bool, error) {
	const insertView = `
        INSERT INTO course_views (user_id, course_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, course_id) DO NOTHING`
	const bumpRequests = `UPDATE courses SET requests = requests + 1 WHERE id=$1`

	var inserted bool
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, insertView, userID, courseID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return nil
		}
		tag, err = tx.Exec(ctx, bumpRequests, courseID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("course %s: %w", courseID, ErrNotFound)
		}
		inserted = true
		return nil
	})
	if err != nil {
		return false, translate(err)
	}
	return inserted, nil
}

func (r *courseViewRepository) CountByCourse(ctx context.Context, courseID string) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM course_views WHERE course_id=$1`, courseID).Scan(&count); err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *courseViewRepository) List(ctx context.Context, q ListQuery[CourseViewFilter]) ([]domain.CourseView, int, error) {
	where := newWhere()
	if q.OwnerID != nil {
		where.add("user_id=$%d", *q.OwnerID)
	}
	if q.Filter.CourseID != nil {
		where.add("course_id=$%d", *q.Filter.CourseID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM course_views WHERE `+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	limit, offset := q.Window()
	suffix, args := where.page(limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, course_id, viewed_at FROM course_views WHERE `+where.String()+` ORDER BY viewed_at DESC, id`+suffix, args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	views := make([]domain.CourseView, 0, limit)
	for rows.Next() {
		var v domain.CourseView
		if err := rows.Scan(&v.ID, &v.UserID, &v.CourseID, &v.ViewedAt); err != nil {
			return nil, 0, err
		}
		views = append(views, v)
	}
	return views, total, rows.Err()
}
