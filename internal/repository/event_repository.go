package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardlet/cardlet-invites/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, userID int64, shareLink string, req *domain.EventCreateRequest) (*domain.Event, error)
	// GetByID fetches regardless of delete state; restore and permanent
	// delete need to see trashed rows.
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	GetActiveByID(ctx context.Context, id int64) (*domain.Event, error)
	GetByShareLink(ctx context.Context, shareLink string) (*domain.Event, error)
	ExistsByShareLink(ctx context.Context, shareLink string) (bool, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]domain.EventListItem, error)
	ListTrashedByUser(ctx context.Context, userID int64) ([]domain.EventListItem, error)
	Update(ctx context.Context, id int64, req *domain.EventUpdateRequest) (*domain.Event, error)
	IncrementViewCount(ctx context.Context, id int64) (int64, error)
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) (*domain.Event, error)
	HardDelete(ctx context.Context, id int64) error
}

type eventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventCols = `e.id, e.user_id, u.username, e.title, e.event_date, e.event_time,
e.location, e.location_lat, e.location_lng, e.template_type, e.custom_content,
e.share_link, e.view_count, e.deleted_at, e.created_at, e.updated_at`

const eventFrom = ` FROM events e JOIN users u ON u.id = e.user_id `

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID, &e.UserID, &e.Owner, &e.Title, &e.EventDate, &e.EventTime,
		&e.Location, &e.LocationLat, &e.LocationLng, &e.TemplateType, &e.CustomContent,
		&e.ShareLink, &e.ViewCount, &e.DeletedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) Create(ctx context.Context, userID int64, shareLink string, req *domain.EventCreateRequest) (*domain.Event, error) {
	const q = `
		INSERT INTO events (
			user_id, title, event_date, event_time,
			location, location_lat, location_lng,
			template_type, custom_content, share_link, view_count
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,0)
		RETURNING id, view_count, created_at, updated_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	e := domain.Event{
		UserID:        userID,
		Title:         req.Title,
		EventDate:     req.EventDate,
		EventTime:     req.EventTime,
		Location:      req.Location,
		LocationLat:   req.LocationLat,
		LocationLng:   req.LocationLng,
		TemplateType:  req.TemplateType,
		CustomContent: req.CustomContent,
		ShareLink:     shareLink,
	}
	err := r.pool.QueryRow(ctx, q,
		userID, req.Title, req.EventDate, req.EventTime,
		req.Location, req.LocationLat, req.LocationLng,
		req.TemplateType, req.CustomContent, shareLink,
	).Scan(&e.ID, &e.ViewCount, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	const q = `SELECT ` + eventCols + eventFrom + `WHERE e.id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEvent(r.pool.QueryRow(ctx, q, id))
}

func (r *eventRepository) GetActiveByID(ctx context.Context, id int64) (*domain.Event, error) {
	const q = `SELECT ` + eventCols + eventFrom + `WHERE e.id = $1 AND e.deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEvent(r.pool.QueryRow(ctx, q, id))
}

func (r *eventRepository) GetByShareLink(ctx context.Context, shareLink string) (*domain.Event, error) {
	const q = `SELECT ` + eventCols + eventFrom + `WHERE e.share_link = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEvent(r.pool.QueryRow(ctx, q, shareLink))
}

func (r *eventRepository) ExistsByShareLink(ctx context.Context, shareLink string) (bool, error) {
	// Uniqueness spans soft-deleted rows too, so no delete-state filter here.
	const q = `SELECT EXISTS (SELECT 1 FROM events WHERE share_link = $1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, shareLink).Scan(&exists)
	return exists, err
}

const eventListCols = `e.id, e.title, e.event_date, e.event_time, e.location,
e.share_link, e.view_count, e.created_at, e.updated_at`

func (r *eventRepository) listByUser(ctx context.Context, userID int64, trashed bool) ([]domain.EventListItem, error) {
	q := `SELECT ` + eventListCols + ` FROM events e WHERE e.user_id = $1 AND e.deleted_at IS NULL ORDER BY e.id`
	if trashed {
		q = `SELECT ` + eventListCols + ` FROM events e WHERE e.user_id = $1 AND e.deleted_at IS NOT NULL ORDER BY e.id`
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.EventListItem
	for rows.Next() {
		var it domain.EventListItem
		if err := rows.Scan(
			&it.ID, &it.Title, &it.EventDate, &it.EventTime, &it.Location,
			&it.ShareLink, &it.ViewCount, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *eventRepository) ListActiveByUser(ctx context.Context, userID int64) ([]domain.EventListItem, error) {
	return r.listByUser(ctx, userID, false)
}

func (r *eventRepository) ListTrashedByUser(ctx context.Context, userID int64) ([]domain.EventListItem, error) {
	return r.listByUser(ctx, userID, true)
}

func (r *eventRepository) Update(ctx context.Context, id int64, req *domain.EventUpdateRequest) (*domain.Event, error) {
	const q = `
		UPDATE events SET
			title          = $2,
			event_date     = $3,
			event_time     = $4,
			location       = $5,
			location_lat   = $6,
			location_lng   = $7,
			template_type  = $8,
			custom_content = $9,
			updated_at     = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var updatedID int64
	err := r.pool.QueryRow(ctx, q, id,
		req.Title, req.EventDate, req.EventTime,
		req.Location, req.LocationLat, req.LocationLng,
		req.TemplateType, req.CustomContent,
	).Scan(&updatedID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, updatedID)
}

// IncrementViewCount bumps the counter in a single statement so concurrent
// share-link reads never lose an update. Returns the new count.
func (r *eventRepository) IncrementViewCount(ctx context.Context, id int64) (int64, error) {
	const q = `UPDATE events SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var count int64
	err := r.pool.QueryRow(ctx, q, id).Scan(&count)
	return count, err
}

func (r *eventRepository) SoftDelete(ctx context.Context, id int64) error {
	const q = `UPDATE events SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`
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

func (r *eventRepository) Restore(ctx context.Context, id int64) (*domain.Event, error) {
	const q = `UPDATE events SET deleted_at = NULL, updated_at = now() WHERE id = $1 AND deleted_at IS NOT NULL RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var restoredID int64
	err := r.pool.QueryRow(ctx, q, id).Scan(&restoredID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, restoredID)
}

func (r *eventRepository) HardDelete(ctx context.Context, id int64) error {
	// Dependent RSVPs go with the row via the FK cascade.
	const q = `DELETE FROM events WHERE id = $1`
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
