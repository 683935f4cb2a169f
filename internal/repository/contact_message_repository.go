package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consulting-service/internal/domain"
)

const contactMessageColumns = `id, owner_id, subject, message, sent_at`

type contactMessageRepository struct {
	pool *pgxpool.Pool
}

// NewContactMessageRepository returns a Postgres-backed implementation.
func NewContactMessageRepository(pool *pgxpool.Pool) ContactMessageRepository {
	return &contactMessageRepository{pool: pool}
}

func scanContactMessage(row scanner, msg *domain.ContactMessage) error {
	return row.Scan(&msg.ID, &msg.OwnerID, &msg.Subject, &msg.Message, &msg.SentAt)
}

func (r *contactMessageRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	const query = `
        INSERT INTO contact_messages (owner_id, subject, message)
        VALUES ($1, $2, $3)
        RETURNING id, sent_at`

	return translate(r.pool.QueryRow(ctx, query, msg.OwnerID, msg.Subject, msg.Message).Scan(&msg.ID, &msg.SentAt))
}

func (r *contactMessageRepository) Update(ctx context.Context, msg *domain.ContactMessage) error {
	tag, err := r.pool.Exec(ctx, `UPDATE contact_messages SET subject=$1, message=$2 WHERE id=$3`,
		msg.Subject, msg.Message, msg.ID)
	if err != nil {
		return translate(err)
	}
	return affected(tag)
}

func (r *contactMessageRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_messages WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	return affected(tag)
}

func (r *contactMessageRepository) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	var msg domain.ContactMessage
	if err := scanContactMessage(r.pool.QueryRow(ctx, `SELECT `+contactMessageColumns+` FROM contact_messages WHERE id=$1`, id), &msg); err != nil {
		return nil, translate(err)
	}
	return &msg, nil
}

func (r *contactMessageRepository) List(ctx context.Context, q ListQuery[ContactMessageFilter]) ([]domain.ContactMessage, int, error) {
	where := newWhere()
	if q.OwnerID != nil {
		where.add("owner_id=$%d", *q.OwnerID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_messages WHERE `+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	limit, offset := q.Window()
	suffix, args := where.page(limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+contactMessageColumns+` FROM contact_messages WHERE `+where.String()+` ORDER BY sent_at DESC, id`+suffix, args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	msgs := make([]domain.ContactMessage, 0, limit)
	for rows.Next() {
		var msg domain.ContactMessage
		if err := scanContactMessage(rows, &msg); err != nil {
			return nil, 0, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, total, rows.Err()
}
