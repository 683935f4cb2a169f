package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consulting-service/internal/domain"
)

const testimonialColumns = `id, owner_id, university, story, photo, video_url, country, created_at, updated_at`

type testimonialRepository struct {
	pool *pgxpool.Pool
}

// NewTestimonialRepository returns a Postgres-backed implementation.
func NewTestimonialRepository(pool *pgxpool.Pool) TestimonialRepository {
	return &testimonialRepository{pool: pool}
}

func scanTestimonial(row scanner, t *domain.Testimonial) error {
	return row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.University,
		&t.Story,
		&t.Photo,
		&t.VideoURL,
		&t.Country,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
}

func (r *testimonialRepository) Create(ctx context.Context, t *domain.Testimonial) error {
	const query = `
        INSERT INTO testimonials (owner_id, university, story, photo, video_url, country)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return translate(r.pool.QueryRow(ctx, query,
		t.OwnerID,
		t.University,
		t.Story,
		t.Photo,
		t.VideoURL,
		t.Country,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt))
}

func (r *testimonialRepository) Update(ctx context.Context, t *domain.Testimonial) error {
	const query = `
        UPDATE testimonials SET university=$1, story=$2, photo=$3, video_url=$4, country=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`

	return translate(r.pool.QueryRow(ctx, query,
		t.University,
		t.Story,
		t.Photo,
		t.VideoURL,
		t.Country,
		t.ID,
	).Scan(&t.UpdatedAt))
}

func (r *testimonialRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM testimonials WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	return affected(tag)
}

func (r *testimonialRepository) GetByID(ctx context.Context, id string) (*domain.Testimonial, error) {
	var t domain.Testimonial
	if err := scanTestimonial(r.pool.QueryRow(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE id=$1`, id), &t); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *testimonialRepository) List(ctx context.Context, q ListQuery[TestimonialFilter]) ([]domain.Testimonial, int, error) {
	where := newWhere()
	if q.OwnerID != nil {
		where.add("owner_id=$%d", *q.OwnerID)
	}
	if q.Filter.University != nil {
		where.add("LOWER(university)=LOWER($%d)", *q.Filter.University)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM testimonials WHERE `+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	limit, offset := q.Window()
	suffix, args := where.page(limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE `+where.String()+` ORDER BY created_at DESC, id`+suffix, args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	items := make([]domain.Testimonial, 0, limit)
	for rows.Next() {
		var t domain.Testimonial
		if err := scanTestimonial(rows, &t); err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}
