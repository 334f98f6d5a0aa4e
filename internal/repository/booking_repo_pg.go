package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reefcrew/seabooking/internal/domain"
)

type BookingRepository interface {
	// Create reserves the booked seats and persists the booking together
	// with its payment records in one transaction. Returns ErrNoCapacity
	// when the slot cannot take booking.TotalGuests more seats.
	Create(ctx context.Context, booking *domain.Booking, records []domain.PaymentRecord) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	SetPaymentLink(ctx context.Context, bookingID int64, linkID, linkURL string) error
	ListPayments(ctx context.Context, bookingID int64) ([]domain.PaymentRecord, error)
	GetPayment(ctx context.Context, paymentID string) (*domain.PaymentRecord, error)
	// SettlePayment transitions a PENDING record to status. Returns
	// ErrNotFound when the record is missing or no longer pending, so a
	// second settle attempt on the same record loses cleanly.
	SettlePayment(ctx context.Context, paymentID string, status domain.PaymentStatus, guestName, guestEmail, intentID string) (*domain.PaymentRecord, error)
	// Cancel marks the booking and its live payment records cancelled and
	// releases the reserved seats, all in one transaction.
	Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.PaymentRecord, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, confirmation_code, activity_id, slot_id, slot_date, slot_time, total_guests, price_per_guest_cents, booker_name, booker_email, booker_whatsapp, payment_link_id, payment_link_url, status, created_at, updated_at`

const paymentColumns = `id, booking_id, guest_name, guest_email, amount_cents, status, is_booker, payment_intent_id, paid_at, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking, records []domain.PaymentRecord) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := reserveSlotSeats(ctx, tx, booking.SlotID, booking.TotalGuests); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx, `
		INSERT INTO bookings (confirmation_code, activity_id, slot_id, slot_date, slot_time, total_guests, price_per_guest_cents, booker_name, booker_email, booker_whatsapp, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		booking.ConfirmationCode, booking.ActivityID, booking.SlotID, booking.SlotDate, booking.SlotTime,
		booking.TotalGuests, booking.PricePerGuestCents, booking.BookerName, booking.BookerEmail,
		booking.BookerWhatsapp, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i := range records {
		rec := &records[i]
		rec.BookingID = booking.ID
		batch.Queue(`
			INSERT INTO payment_records (id, booking_id, guest_name, guest_email, amount_cents, status, is_booker, payment_intent_id, paid_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			rec.ID, rec.BookingID, rec.GuestName, rec.GuestEmail, rec.AmountCents, rec.Status, rec.IsBooker, rec.PaymentIntentID, rec.PaidAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *PGBookingRepository) SetPaymentLink(ctx context.Context, bookingID int64, linkID, linkURL string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET payment_link_id=$2, payment_link_url=$3, updated_at=now() WHERE id=$1`, bookingID, linkID, linkURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPayments returns the booking's payment records, booker first.
func (r *PGBookingRepository) ListPayments(ctx context.Context, bookingID int64) ([]domain.PaymentRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT `+paymentColumns+` FROM payment_records WHERE booking_id=$1 ORDER BY is_booker DESC, created_at, id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.PaymentRecord, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *p)
	}
	return records, rows.Err()
}

func (r *PGBookingRepository) GetPayment(ctx context.Context, paymentID string) (*domain.PaymentRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payment_records WHERE id=$1`, paymentID)
	p, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PGBookingRepository) SettlePayment(ctx context.Context, paymentID string, status domain.PaymentStatus, guestName, guestEmail, intentID string) (*domain.PaymentRecord, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE payment_records
		SET status=$2,
		    guest_name=COALESCE(NULLIF($3, ''), guest_name),
		    guest_email=COALESCE(NULLIF($4, ''), guest_email),
		    payment_intent_id=COALESCE(NULLIF($5, ''), payment_intent_id),
		    paid_at=CASE WHEN $2='PAID' THEN now() ELSE paid_at END,
		    updated_at=now()
		WHERE id=$1 AND status=$6
		RETURNING `+paymentColumns, paymentID, status, guestName, guestEmail, intentID, domain.PaymentStatusPending)
	p, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PGBookingRepository) Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$2, updated_at=now() WHERE id=$1 RETURNING `+bookingColumns, bookingID, domain.BookingStatusCancelled)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE payment_records SET status=$2, updated_at=now() WHERE booking_id=$1 AND status != $2`, bookingID, domain.PaymentStatusCancelled); err != nil {
		return nil, err
	}
	if err := releaseSlotSeats(ctx, tx, b.SlotID, b.TotalGuests); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.PaymentRecord, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE payment_records SET status=$1, updated_at=now()
		WHERE status=$2 AND is_booker=false AND created_at <= $3
		RETURNING `+paymentColumns, domain.PaymentStatusFailed, domain.PaymentStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *p)
	}
	return expired, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.ConfirmationCode, &b.ActivityID, &b.SlotID, &b.SlotDate, &b.SlotTime, &b.TotalGuests, &b.PricePerGuestCents, &b.BookerName, &b.BookerEmail, &b.BookerWhatsapp, &b.PaymentLinkID, &b.PaymentLinkURL, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanPayment(row pgx.Row) (*domain.PaymentRecord, error) {
	var p domain.PaymentRecord
	if err := row.Scan(&p.ID, &p.BookingID, &p.GuestName, &p.GuestEmail, &p.AmountCents, &p.Status, &p.IsBooker, &p.PaymentIntentID, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
