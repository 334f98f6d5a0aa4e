package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reefcrew/seabooking/internal/domain"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrNoCapacity = errors.New("not enough seats left on slot")
)

// ActivityRepository serves the read-only excursion catalog.
type ActivityRepository interface {
	List(ctx context.Context) ([]domain.Activity, error)
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
}

type PGActivityRepository struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) ActivityRepository {
	return &PGActivityRepository{db: db}
}

const activityColumns = `id, title, category, duration_min, seat_price_cents, boat_price_cents, capacity, min_to_run, is_private, rating, review_count, description, created_at, updated_at`

func (r *PGActivityRepository) List(ctx context.Context) ([]domain.Activity, error) {
	rows, err := r.db.Query(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

func (r *PGActivityRepository) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	row := r.db.QueryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id=$1`, id)
	a, err := scanActivity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var a domain.Activity
	if err := row.Scan(&a.ID, &a.Title, &a.Category, &a.DurationMin, &a.SeatPriceCents, &a.BoatPriceCents, &a.Capacity, &a.MinToRun, &a.IsPrivate, &a.Rating, &a.ReviewCount, &a.Description, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

var _ ActivityRepository = (*PGActivityRepository)(nil)
