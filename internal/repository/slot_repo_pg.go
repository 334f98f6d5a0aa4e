package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reefcrew/seabooking/internal/domain"
)

// SlotRepository persists trip slots. seats_filled only ever moves inside the
// booking create and cancel transactions, through the conditional
// reserveSlotSeats / releaseSlotSeats updates, so a slot can never be oversold
// no matter how many bookings race on it.
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TripSlot, error)
	FindOrCreate(ctx context.Context, slot *domain.TripSlot) (*domain.TripSlot, error)
	SeatsFilled(ctx context.Context, activityID int64, date, startTime string) (int, error)
}

type PGSlotRepository struct {
	db *pgxpool.Pool
}

func NewSlotRepository(db *pgxpool.Pool) SlotRepository {
	return &PGSlotRepository{db: db}
}

const slotColumns = `id, activity_id, date, start_time, end_time, capacity, min_to_run, seats_filled, created_at, updated_at`

func (r *PGSlotRepository) GetByID(ctx context.Context, id int64) (*domain.TripSlot, error) {
	row := r.db.QueryRow(ctx, `SELECT `+slotColumns+` FROM trip_slots WHERE id=$1`, id)
	s, err := scanSlot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// FindOrCreate resolves a generated candidate slot to its persisted row,
// inserting an empty one on first booking.
func (r *PGSlotRepository) FindOrCreate(ctx context.Context, slot *domain.TripSlot) (*domain.TripSlot, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO trip_slots (activity_id, date, start_time, end_time, capacity, min_to_run, seats_filled)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		ON CONFLICT (activity_id, date, start_time) DO UPDATE SET updated_at = now()
		RETURNING `+slotColumns,
		slot.ActivityID, slot.Date, slot.StartTime, slot.EndTime, slot.Capacity, slot.MinToRun)
	return scanSlot(row)
}

// reserveSlotSeats atomically increments seats_filled by n within tx, refusing
// the update when it would exceed capacity. Returns the resulting seats_filled.
func reserveSlotSeats(ctx context.Context, tx pgx.Tx, slotID int64, n int) (int, error) {
	var filled int
	err := tx.QueryRow(ctx, `
		UPDATE trip_slots SET seats_filled = seats_filled + $2, updated_at = now()
		WHERE id=$1 AND seats_filled + $2 <= capacity
		RETURNING seats_filled`, slotID, n).Scan(&filled)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNoCapacity
	}
	return filled, err
}

// releaseSlotSeats hands seats back within tx, clamping at zero.
func releaseSlotSeats(ctx context.Context, tx pgx.Tx, slotID int64, n int) error {
	cmd, err := tx.Exec(ctx, `
		UPDATE trip_slots SET seats_filled = GREATEST(seats_filled - $2, 0), updated_at = now()
		WHERE id=$1`, slotID, n)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGSlotRepository) SeatsFilled(ctx context.Context, activityID int64, date, startTime string) (int, error) {
	var filled int
	err := r.db.QueryRow(ctx, `SELECT seats_filled FROM trip_slots WHERE activity_id=$1 AND date=$2 AND start_time=$3`, activityID, date, startTime).Scan(&filled)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return filled, err
}

func scanSlot(row pgx.Row) (*domain.TripSlot, error) {
	var s domain.TripSlot
	if err := row.Scan(&s.ID, &s.ActivityID, &s.Date, &s.StartTime, &s.EndTime, &s.Capacity, &s.MinToRun, &s.SeatsFilled, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

var _ SlotRepository = (*PGSlotRepository)(nil)

// StoreOccupancy adapts the slot repository into the slot generator's
// occupancy interface, replacing simulated counts with booked ones.
type StoreOccupancy struct {
	slots SlotRepository
}

func NewStoreOccupancy(slots SlotRepository) *StoreOccupancy {
	return &StoreOccupancy{slots: slots}
}

func (o *StoreOccupancy) SeatsFilled(ctx context.Context, activityID int64, date, startTime string, _ int) (int, error) {
	return o.slots.SeatsFilled(ctx, activityID, date, startTime)
}
