package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consulting-service/internal/domain"
)

const blogPostColumns = `id, owner_id, title, slug, content, image, category, created_at, updated_at`

type blogPostRepository struct {
	pool *pgxpool.Pool
}

// NewBlogPostRepository returns a Postgres-backed implementation.
func NewBlogPostRepository(pool *pgxpool.Pool) BlogPostRepository {
	return &blogPostRepository{pool: pool}
}

func scanBlogPost(row scanner, post *domain.BlogPost) error {
	return row.Scan(
		&post.ID,
		&post.OwnerID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.Image,
		&post.Category,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
}

func (r *blogPostRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	const query = `
        INSERT INTO blog_posts (owner_id, title, slug, content, image, category)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return translate(r.pool.QueryRow(ctx, query,
		post.OwnerID,
		post.Title,
		post.Slug,
		post.Content,
		post.Image,
		post.Category,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt))
}

func (r *blogPostRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	const query = `
        UPDATE blog_posts SET title=$1, slug=$2, content=$3, image=$4, category=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`

	return translate(r.pool.QueryRow(ctx, query,
		post.Title,
		post.Slug,
		post.Content,
		post.Image,
		post.Category,
		post.ID,
	).Scan(&post.UpdatedAt))
}

func (r *blogPostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	return affected(tag)
}

func (r *blogPostRepository) GetByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	var post domain.BlogPost
	if err := scanBlogPost(r.pool.QueryRow(ctx, `SELECT `+blogPostColumns+` FROM blog_posts WHERE id=$1`, id), &post); err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *blogPostRepository) List(ctx context.Context, q ListQuery[BlogPostFilter]) ([]domain.BlogPost, int, error) {
	where := newWhere()
	if q.OwnerID != nil {
		where.add("owner_id=$%d", *q.OwnerID)
	}
	if q.Filter.Category != nil {
		where.add("category=$%d", *q.Filter.Category)
	}
	if q.Filter.CreatedOn != nil {
		where.add("created_at::date=$%d::date", *q.Filter.CreatedOn)
	}
	if q.Filter.CreatedFrom != nil {
		where.add("created_at::date>=$%d::date", *q.Filter.CreatedFrom)
	}
	if q.Filter.CreatedTo != nil {
		where.add("created_at::date<=$%d::date", *q.Filter.CreatedTo)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blog_posts WHERE `+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	limit, offset := q.Window()
	suffix, args := where.page(limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+blogPostColumns+` FROM blog_posts WHERE `+where.String()+` ORDER BY created_at DESC, id`+suffix, args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	posts := make([]domain.BlogPost, 0, limit)
	for rows.Next() {
		var post domain.BlogPost
		if err := scanBlogPost(rows, &post); err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	return posts, total, rows.Err()
}
