package trips

import (
	"context"
	"errors"

	"github.com/reefcrew/seabooking/internal/domain"
	"github.com/reefcrew/seabooking/internal/repository"
	"github.com/reefcrew/seabooking/internal/slots"
)

var ErrBookingNotFound = errors.New("booking not found")

type TripUseCase interface {
	ListActivities(ctx context.Context) ([]domain.Activity, error)
	GetActivity(ctx context.Context, id int64) (*domain.Activity, error)
	ListSlots(ctx context.Context, activityID int64, daysAhead int) ([]domain.TripSlot, error)
	GetTripStatus(ctx context.Context, bookingID int64) (*TripStatusSummary, error)
}

type Cache interface {
	GetSlots(ctx context.Context, activityID int64, daysAhead int) ([]domain.TripSlot, error)
	SetSlots(ctx context.Context, activityID int64, daysAhead int, slots []domain.TripSlot) error
}

// TripStatusSummary aggregates a booking's payment records into the
// settlement view the polling UI renders. Payments are ordered booker
// first.
type TripStatusSummary struct {
	Booking      *domain.Booking
	Payments     []domain.PaymentRecord
	TotalGuests  int
	PaidCount    int
	PendingCount int
	FailedCount  int
}

func (s *TripStatusSummary) AllPaid() bool {
	return s.PaidCount == s.TotalGuests
}

type TripService struct {
	activities repository.ActivityRepository
	bookings   repository.BookingRepository
	generator  *slots.Generator
	cache      Cache
	daysAhead  int
}

func NewTripService(activities repository.ActivityRepository, bookings repository.BookingRepository, generator *slots.Generator, cache Cache, daysAhead int) *TripService {
	if daysAhead < 1 {
		daysAhead = 7
	}
	return &TripService{
		activities: activities,
		bookings:   bookings,
		generator:  generator,
		cache:      cache,
		daysAhead:  daysAhead,
	}
}

func (s *TripService) ListActivities(ctx context.Context) ([]domain.Activity, error) {
	return s.activities.List(ctx)
}

func (s *TripService) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	return s.activities.GetByID(ctx, id)
}

func (s *TripService) ListSlots(ctx context.Context, activityID int64, daysAhead int) ([]domain.TripSlot, error) {
	if daysAhead < 1 {
		daysAhead = s.daysAhead
	}

	if s.cache != nil {
		if cached, err := s.cache.GetSlots(ctx, activityID, daysAhead); err == nil && cached != nil {
			return cached, nil
		}
	}

	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	generated, err := s.generator.Generate(ctx, activity, daysAhead)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSlots(ctx, activityID, daysAhead, generated)
	}
	return generated, nil
}

// GetTripStatus is a pure read: calling it twice without an intervening
// payment change returns identical summaries.
func (s *TripService) GetTripStatus(ctx context.Context, bookingID int64) (*TripStatusSummary, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	payments, err := s.bookings.ListPayments(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	summary := &TripStatusSummary{
		Booking:     booking,
		Payments:    payments,
		TotalGuests: booking.TotalGuests,
	}
	for _, p := range payments {
		switch p.Status {
		case domain.PaymentStatusPaid:
			summary.PaidCount++
		case domain.PaymentStatusPending:
			summary.PendingCount++
		case domain.PaymentStatusFailed:
			summary.FailedCount++
		}
	}
	return summary, nil
}

var _ TripUseCase = (*TripService)(nil)
