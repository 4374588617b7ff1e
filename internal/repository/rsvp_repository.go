package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardlet/cardlet-invites/internal/domain"
)

type RSVPRepository interface {
	Create(ctx context.Context, eventID int64, req *domain.RSVPCreateRequest, ipAddress string) (*domain.RSVP, error)
	GetByID(ctx context.Context, id int64) (*domain.RSVP, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.RSVP, error)
	Update(ctx context.Context, id int64, attendance domain.Attendance, companionCount int, message string) (*domain.RSVP, error)
	Delete(ctx context.Context, id int64) error
}

type rsvpRepository struct {
	pool *pgxpool.Pool
}

func NewRSVPRepository(pool *pgxpool.Pool) RSVPRepository {
	return &rsvpRepository{pool: pool}
}

const rsvpCols = `id, event_id, guest_name, attendance, companion_count,
phone, email, message, ip_address, created_at, updated_at`

func scanRSVP(row pgx.Row) (*domain.RSVP, error) {
	var v domain.RSVP
	err := row.Scan(
		&v.ID, &v.EventID, &v.GuestName, &v.Attendance, &v.CompanionCount,
		&v.Phone, &v.Email, &v.Message, &v.IPAddress, &v.CreatedAt, &v.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *rsvpRepository) Create(ctx context.Context, eventID int64, req *domain.RSVPCreateRequest, ipAddress string) (*domain.RSVP, error) {
	const q = `
		INSERT INTO rsvps (
			event_id, guest_name, attendance, companion_count,
			phone, email, message, ip_address
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING ` + rsvpCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	companions := 0
	if req.CompanionCount != nil {
		companions = *req.CompanionCount
	}
	return scanRSVP(r.pool.QueryRow(ctx, q,
		eventID, req.GuestName, req.Attendance, companions,
		req.Phone, req.Email, req.Message, ipAddress,
	))
}

func (r *rsvpRepository) GetByID(ctx context.Context, id int64) (*domain.RSVP, error) {
	const q = `SELECT ` + rsvpCols + ` FROM rsvps WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanRSVP(r.pool.QueryRow(ctx, q, id))
}

func (r *rsvpRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.RSVP, error) {
	const q = `SELECT ` + rsvpCols + ` FROM rsvps WHERE event_id = $1 ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps []domain.RSVP
	for rows.Next() {
		var v domain.RSVP
		if err := rows.Scan(
			&v.ID, &v.EventID, &v.GuestName, &v.Attendance, &v.CompanionCount,
			&v.Phone, &v.Email, &v.Message, &v.IPAddress, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rsvps = append(rsvps, v)
	}
	return rsvps, rows.Err()
}

func (r *rsvpRepository) Update(ctx context.Context, id int64, attendance domain.Attendance, companionCount int, message string) (*domain.RSVP, error) {
	const q = `
		UPDATE rsvps SET
			attendance      = $2,
			companion_count = $3,
			message         = $4,
			updated_at      = now()
		WHERE id = $1
		RETURNING ` + rsvpCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanRSVP(r.pool.QueryRow(ctx, q, id, attendance, companionCount, message))
}

func (r *rsvpRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM rsvps WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
