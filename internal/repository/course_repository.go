package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consulting-service/internal/domain"
)

const courseColumns = `id, owner_id, title, description, duration_weeks, price::text, country, category, start_date, image, requests, created_at, updated_at`

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository returns a Postgres-backed implementation.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

func scanCourse(row scanner, course *domain.Course) error {
	return row.Scan(
		&course.ID,
		&course.OwnerID,
		&course.Title,
		&course.Description,
		&course.DurationWeeks,
		&course.Price,
		&course.Country,
		&course.Category,
		&course.StartDate,
		&course.Image,
		&course.Requests,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
}

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	const query = `
        INSERT INTO courses (owner_id, title, description, duration_weeks, price, country, category, start_date, image)
        VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)
        RETURNING id, requests, created_at, updated_at`

	return translate(r.pool.QueryRow(ctx, query,
		course.OwnerID,
		course.Title,
		course.Description,
		course.DurationWeeks,
		course.Price,
		course.Country,
		course.Category,
		course.StartDate,
		course.Image,
	).Scan(&course.ID, &course.Requests, &course.CreatedAt, &course.UpdatedAt))
}

// Update leaves the requests counter alone; only view recording moves it.
func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	const query = `
        UPDATE courses SET title=$1, description=$2, duration_weeks=$3, price=$4::numeric, country=$5,
            category=$6, start_date=$7, image=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING requests, updated_at`

	return translate(r.pool.QueryRow(ctx, query,
		course.Title,
		course.Description,
		course.DurationWeeks,
		course.Price,
		course.Country,
		course.Category,
		course.StartDate,
		course.Image,
		course.ID,
	).Scan(&course.Requests, &course.UpdatedAt))
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	return affected(tag)
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	var course domain.Course
	if err := scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id=$1`, id), &course); err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *courseRepository) List(ctx context.Context, q ListQuery[CourseFilter]) ([]domain.Course, int, error) {
	where := newWhere()
	if q.OwnerID != nil {
		where.add("owner_id=$%d", *q.OwnerID)
	}
	if q.Filter.Country != nil {
		where.add("LOWER(country)=LOWER($%d)", *q.Filter.Country)
	}
	if q.Filter.Category != nil {
		where.add("category=$%d", *q.Filter.Category)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses WHERE `+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	limit, offset := q.Window()
	suffix, args := where.page(limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE `+where.String()+` ORDER BY start_date DESC, id`+suffix, args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	courses := make([]domain.Course, 0, limit)
	for rows.Next() {
		var course domain.Course
		if err := scanCourse(rows, &course); err != nil {
			return nil, 0, err
		}
		courses = append(courses, course)
	}
	return courses, total, rows.Err()
}
