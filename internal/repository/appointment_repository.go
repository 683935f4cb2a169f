package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consulting-service/internal/domain"
)

const appointmentColumns = `id, owner_id, preferred_date, preferred_time::text, message, created_at`

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository returns a Postgres-backed implementation.
func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

func scanAppointment(row scanner, appt *domain.Appointment) error {
	return row.Scan(
		&appt.ID,
		&appt.OwnerID,
		&appt.PreferredDate,
		&appt.PreferredTime,
		&appt.Message,
		&appt.CreatedAt,
	)
}

func (r *appointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (owner_id, preferred_date, preferred_time, message)
        VALUES ($1, $2, $3::time, $4)
        RETURNING id, created_at`

	return translate(r.pool.QueryRow(ctx, query,
		appt.OwnerID,
		appt.PreferredDate,
		appt.PreferredTime,
		appt.Message,
	).Scan(&appt.ID, &appt.CreatedAt))
}

func (r *appointmentRepository) Update(ctx context.Context, appt *domain.Appointment) error {
	const query = `
        UPDATE appointments SET preferred_date=$1, preferred_time=$2::time, message=$3
        WHERE id=$4`

	tag, err := r.pool.Exec(ctx, query,
		appt.PreferredDate,
		appt.PreferredTime,
		appt.Message,
		appt.ID,
	)
	if err != nil {
		return translate(err)
	}
	return affected(tag)
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	return affected(tag)
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	var appt domain.Appointment
	if err := scanAppointment(r.pool.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id=$1`, id), &appt); err != nil {
		return nil, translate(err)
	}
	return &appt, nil
}

func (r *appointmentRepository) List(ctx context.Context, q ListQuery[AppointmentFilter]) ([]domain.Appointment, int, error) {
	where := newWhere()
	if q.OwnerID != nil {
		where.add("owner_id=$%d", *q.OwnerID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE `+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	limit, offset := q.Window()
	suffix, args := where.page(limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE `+where.String()+` ORDER BY preferred_date DESC, id`+suffix, args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	appts := make([]domain.Appointment, 0, limit)
	for rows.Next() {
		var appt domain.Appointment
		if err := scanAppointment(rows, &appt); err != nil {
			return nil, 0, err
		}
		appts = append(appts, appt)
	}
	return appts, total, rows.Err()
}
