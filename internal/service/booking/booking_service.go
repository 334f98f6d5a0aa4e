package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reefcrew/seabooking/internal/domain"
	"github.com/reefcrew/seabooking/internal/kafka"
	"github.com/reefcrew/seabooking/internal/monitoring"
	"github.com/reefcrew/seabooking/internal/payment"
	"github.com/reefcrew/seabooking/internal/pricing"
	"github.com/reefcrew/seabooking/internal/promo"
	"github.com/reefcrew/seabooking/internal/repository"
)

// Seat/charge policy: the booker always pays for exactly one seat at
// booking time. The remaining guestCount-1 seats become pending payment
// records settled independently through the shared link. A promo code
// discounts the booker's own share only.

type BookingUseCase interface {
	CreateGroupBooking(ctx context.Context, input CreateGroupBookingInput) (*BookingResult, error)
	PreparePaymentIntent(ctx context.Context, input IntentInput) (*payment.Intent, error)
	CreateShareLink(ctx context.Context, input ShareLinkInput) (*payment.Link, error)
	PayShare(ctx context.Context, input PayShareInput) (*domain.PaymentRecord, error)
	CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	ExpireUnpaidShares(ctx context.Context) ([]domain.PaymentRecord, error)
}

type Cache interface {
	AcquireBookingHold(ctx context.Context, slotID int64, email string, ttl time.Duration) (bool, error)
	ReleaseBookingHold(ctx context.Context, slotID int64, email string) error
	InvalidateSlots(ctx context.Context, activityID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	slots              repository.SlotRepository
	activities         repository.ActivityRepository
	gateway            payment.Gateway
	promos             *promo.Engine
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	gatewayTimeout     time.Duration
	shareTTL           time.Duration
	maxSeatsPerBooking int
	successURL         string
	newCode            func() (string, error)
}

type CreateGroupBookingInput struct {
	ActivityID            int64  `json:"activityId"`
	SlotID                int64  `json:"slotId"`
	SlotDate              string `json:"slotDate"`
	SlotTime              string `json:"slotTime"`
	GuestCount            int    `json:"totalGuests"`
	BookerName            string `json:"bookerName"`
	BookerEmail           string `json:"bookerEmail"`
	BookerWhatsapp        string `json:"bookerWhatsapp"`
	PromoCode             string `json:"promoCode"`
	PaymentMethod         string `json:"paymentMethod"`
	BookerPaymentIntentID string `json:"bookerPaymentIntentId"`
}

type BookingResult struct {
	Booking        *domain.Booking
	Payments       []domain.PaymentRecord
	PaidCount      int
	PendingCount   int
	PaymentLinkID  string
	PaymentLinkURL string
}

type IntentInput struct {
	AmountCents int64
	Currency    string
	Description string
	Email       string
	Metadata    map[string]string
}

type ShareLinkInput struct {
	TripID              string
	TripDate            string
	TripTime            string
	ActivityTitle       string
	PricePerPersonCents int64
	InviterName         string
}

type PayShareInput struct {
	PaymentID     string
	GuestName     string
	GuestEmail    string
	PaymentMethod string
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithMaxSeatsPerBooking(n int) BookingServiceOption {
	return func(s *BookingService) {
		s.maxSeatsPerBooking = n
	}
}

func WithShareTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.shareTTL = ttl
	}
}

func WithSuccessURL(url string) BookingServiceOption {
	return func(s *BookingService) {
		s.successURL = url
	}
}

func WithCodeGenerator(gen func() (string, error)) BookingServiceOption {
	return func(s *BookingService) {
		s.newCode = gen
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	slotRepo repository.SlotRepository,
	activities repository.ActivityRepository,
	gateway payment.Gateway,
	promos *promo.Engine,
	cache Cache,
	producer Producer,
	bookingTopic string,
	holdTTL, gatewayTimeout time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:           bookings,
		slots:              slotRepo,
		activities:         activities,
		gateway:            gateway,
		promos:             promos,
		cache:              cache,
		producer:           producer,
		bookingTopic:       bookingTopic,
		holdTTL:            holdTTL,
		gatewayTimeout:     gatewayTimeout,
		shareTTL:           48 * time.Hour,
		maxSeatsPerBooking: 4,
		newCode:            GenerateConfirmationCode,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateGroupBooking(ctx context.Context, input CreateGroupBookingInput) (*BookingResult, error) {
	if strings.TrimSpace(input.BookerName) == "" || !emailRx.MatchString(input.BookerEmail) {
		return nil, ErrInvalidContact
	}
	if input.GuestCount < 1 {
		return nil, ErrInvalidGuestCount
	}

	activity, err := s.activities.GetByID(ctx, input.ActivityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	if activity.IsPrivate && input.GuestCount != 1 {
		return nil, ErrInvalidGuestCount
	}
	if max := s.perBookingCap(activity); input.GuestCount > max {
		return nil, ErrInvalidGuestCount
	}

	slot, err := s.resolveSlot(ctx, activity, input)
	if err != nil {
		return nil, err
	}
	if slot.SeatsFilled+input.GuestCount > slot.Capacity {
		return nil, ErrSlotFull
	}

	unitPrice, err := pricing.PriceWithNewGuests(activity.SeatPriceCents, slot.SeatsFilled, input.GuestCount)
	if err != nil {
		return nil, ErrInvalidGuestCount
	}

	bookerShare := unitPrice
	if input.PromoCode != "" {
		// Unknown code means no discount, never a failed booking.
		if res, ok := s.promos.Apply(input.PromoCode, unitPrice); ok {
			bookerShare = res.FinalCents
		}
	}

	held := false
	if s.cache != nil {
		ok, err := s.cache.AcquireBookingHold(ctx, slot.ID, input.BookerEmail, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrBookingInProgress
		}
		held = true
	}

	intentID, err := s.chargeBooker(ctx, activity, slot, input, bookerShare)
	if err != nil {
		if held {
			_ = s.cache.ReleaseBookingHold(ctx, slot.ID, input.BookerEmail)
		}
		return nil, err
	}

	code, err := s.newCode()
	if err != nil {
		if held {
			_ = s.cache.ReleaseBookingHold(ctx, slot.ID, input.BookerEmail)
		}
		return nil, err
	}

	booking := &domain.Booking{
		ConfirmationCode:   code,
		ActivityID:         activity.ID,
		SlotID:             slot.ID,
		SlotDate:           slot.Date,
		SlotTime:           slot.StartTime,
		TotalGuests:        input.GuestCount,
		PricePerGuestCents: unitPrice,
		BookerName:         input.BookerName,
		BookerEmail:        input.BookerEmail,
		BookerWhatsapp:     input.BookerWhatsapp,
		Status:             domain.BookingStatusConfirmed,
	}
	records := buildPaymentRecords(input, bookerShare, unitPrice, intentID)

	if err := s.bookings.Create(ctx, booking, records); err != nil {
		if held {
			_ = s.cache.ReleaseBookingHold(ctx, slot.ID, input.BookerEmail)
		}
		monitoring.CountBooking("persist_failed")
		// The booker has already been charged; surface the reference
		// instead of retrying or masking the failure.
		return nil, &PersistenceError{IntentID: intentID, Err: err}
	}

	// The booking is committed; the hold has done its job. Dropping it now
	// lets the booker book the same slot again right away.
	if held {
		_ = s.cache.ReleaseBookingHold(ctx, slot.ID, input.BookerEmail)
	}

	result := &BookingResult{Booking: booking, Payments: records, PaidCount: 1, PendingCount: input.GuestCount - 1}

	if result.PendingCount > 0 {
		linkID, linkURL := s.provisionShareLink(ctx, booking, unitPrice)
		booking.PaymentLinkID = linkID
		booking.PaymentLinkURL = linkURL
		result.PaymentLinkID = linkID
		result.PaymentLinkURL = linkURL
	}

	if s.cache != nil {
		_ = s.cache.InvalidateSlots(ctx, activity.ID)
	}

	monitoring.CountBooking("confirmed")
	monitoring.CountSeats(input.GuestCount)
	s.publish(ctx, kafka.EventBookingCreated, booking, result.PaidCount, result.PendingCount)
	return result, nil
}

func (s *BookingService) perBookingCap(activity *domain.Activity) int {
	if activity.IsPrivate {
		return 1
	}
	max := s.maxSeatsPerBooking
	if activity.Capacity < max {
		max = activity.Capacity
	}
	return max
}

func (s *BookingService) resolveSlot(ctx context.Context, activity *domain.Activity, input CreateGroupBookingInput) (*domain.TripSlot, error) {
	if input.SlotID != 0 {
		slot, err := s.slots.GetByID(ctx, input.SlotID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		return slot, err
	}
	if input.SlotDate == "" || input.SlotTime == "" {
		return nil, ErrSlotNotFound
	}
	end := slotEndTime(input.SlotTime, activity.DurationMin)
	return s.slots.FindOrCreate(ctx, &domain.TripSlot{
		ActivityID: activity.ID,
		Date:       input.SlotDate,
		StartTime:  input.SlotTime,
		EndTime:    end,
		Capacity:   activity.Capacity,
		MinToRun:   activity.MinToRun,
	})
}

// chargeBooker settles the booker's own seat before anything is persisted.
// A provided intent id is verified against the gateway rather than trusted.
func (s *BookingService) chargeBooker(ctx context.Context, activity *domain.Activity, slot *domain.TripSlot, input CreateGroupBookingInput, amountCents int64) (string, error) {
	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	if input.BookerPaymentIntentID != "" {
		intent, err := s.gateway.RetrievePaymentIntent(gctx, input.BookerPaymentIntentID)
		if err != nil {
			return "", err
		}
		if intent.Status != "succeeded" || intent.AmountCents != amountCents {
			return "", ErrPaymentDeclined
		}
		return intent.ID, nil
	}

	intent, err := s.gateway.CreatePaymentIntent(gctx, payment.IntentRequest{
		AmountCents: amountCents,
		Currency:    "usd",
		Description: activity.Title + " on " + slot.Date + " " + slot.StartTime,
		Email:       input.BookerEmail,
		Metadata: map[string]string{
			"activity_id": strconv.FormatInt(activity.ID, 10),
			"slot_id":     strconv.FormatInt(slot.ID, 10),
			"slot_date":   slot.Date,
			"slot_time":   slot.StartTime,
			"guest_count": strconv.Itoa(input.GuestCount),
			"request_id":  uuid.NewString(),
		},
	})
	if err != nil {
		return "", err
	}

	conf, err := s.gateway.ConfirmPayment(gctx, intent.ID, input.PaymentMethod)
	if err != nil {
		return "", err
	}
	if !conf.Success {
		return "", ErrPaymentDeclined
	}
	return intent.ID, nil
}

func buildPaymentRecords(input CreateGroupBookingInput, bookerShareCents, unitPriceCents int64, intentID string) []domain.PaymentRecord {
	now := time.Now()
	records := make([]domain.PaymentRecord, 0, input.GuestCount)
	records = append(records, domain.PaymentRecord{
		ID:              uuid.NewString(),
		GuestName:       input.BookerName,
		GuestEmail:      input.BookerEmail,
		AmountCents:     bookerShareCents,
		Status:          domain.PaymentStatusPaid,
		IsBooker:        true,
		PaymentIntentID: intentID,
		PaidAt:          &now,
	})
	for i := 1; i < input.GuestCount; i++ {
		records = append(records, domain.PaymentRecord{
			ID:          uuid.NewString(),
			AmountCents: unitPriceCents,
			Status:      domain.PaymentStatusPending,
		})
	}
	return records
}

// provisionShareLink asks the gateway for a shareable checkout link for the
// per-seat amount. Failure is non-fatal: the booking stands and an app deep
// link is stored instead.
func (s *BookingService) provisionShareLink(ctx context.Context, booking *domain.Booking, unitPriceCents int64) (string, string) {
	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	link, err := s.gateway.CreatePaymentLink(gctx, payment.LinkRequest{
		AmountCents: unitPriceCents,
		Currency:    "usd",
		ProductName: "Trip seat " + booking.ConfirmationCode,
		Description: "Your seat on " + booking.SlotDate + " " + booking.SlotTime,
		Metadata: map[string]string{
			"booking_id":        strconv.FormatInt(booking.ID, 10),
			"confirmation_code": booking.ConfirmationCode,
			"slot_date":         booking.SlotDate,
			"slot_time":         booking.SlotTime,
		},
		SuccessURL: s.successURL,
	})
	if err != nil {
		log.Printf("WARNING: payment link for booking %s failed, falling back to deep link: %v", booking.ConfirmationCode, err)
		fallback := "seabooking://trip/" + booking.ConfirmationCode
		if err := s.bookings.SetPaymentLink(ctx, booking.ID, "", fallback); err != nil {
			log.Printf("WARNING: store fallback link for booking %s: %v", booking.ConfirmationCode, err)
		}
		return "", fallback
	}

	if err := s.bookings.SetPaymentLink(ctx, booking.ID, link.ID, link.URL); err != nil {
		log.Printf("WARNING: store payment link for booking %s: %v", booking.ConfirmationCode, err)
	}
	return link.ID, link.URL
}

func (s *BookingService) PreparePaymentIntent(ctx context.Context, input IntentInput) (*payment.Intent, error) {
	if input.AmountCents <= 0 {
		return nil, ErrInvalidGuestCount
	}
	if input.Currency == "" {
		input.Currency = "usd"
	}

	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	return s.gateway.CreatePaymentIntent(gctx, payment.IntentRequest{
		AmountCents: input.AmountCents,
		Currency:    input.Currency,
		Description: input.Description,
		Email:       input.Email,
		Metadata:    input.Metadata,
	})
}

func (s *BookingService) CreateShareLink(ctx context.Context, input ShareLinkInput) (*payment.Link, error) {
	if input.PricePerPersonCents <= 0 || input.TripID == "" {
		return nil, ErrSlotNotFound
	}

	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	productName := input.ActivityTitle
	if productName == "" {
		productName = "Shared trip seat"
	}
	return s.gateway.CreatePaymentLink(gctx, payment.LinkRequest{
		AmountCents: input.PricePerPersonCents,
		Currency:    "usd",
		ProductName: productName,
		Description: "Join " + input.InviterName + " on " + input.TripDate + " " + input.TripTime,
		Metadata: map[string]string{
			"trip_id":   input.TripID,
			"trip_date": input.TripDate,
			"trip_time": input.TripTime,
			"inviter":   input.InviterName,
		},
		SuccessURL: s.successURL,
	})
}

func (s *BookingService) PayShare(ctx context.Context, input PayShareInput) (*domain.PaymentRecord, error) {
	if strings.TrimSpace(input.GuestName) == "" || !emailRx.MatchString(input.GuestEmail) {
		return nil, ErrInvalidContact
	}

	record, err := s.bookings.GetPayment(ctx, input.PaymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrShareNotFound
		}
		return nil, err
	}
	if record.Status != domain.PaymentStatusPending {
		return nil, ErrShareNotPending
	}

	booking, err := s.bookings.GetByID(ctx, record.BookingID)
	if err != nil {
		return nil, err
	}

	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	intent, err := s.gateway.CreatePaymentIntent(gctx, payment.IntentRequest{
		AmountCents: record.AmountCents,
		Currency:    "usd",
		Description: "Seat share for booking " + booking.ConfirmationCode,
		Email:       input.GuestEmail,
		Metadata: map[string]string{
			"booking_id":        strconv.FormatInt(booking.ID, 10),
			"payment_record_id": record.ID,
		},
	})
	if err != nil {
		return nil, err
	}
	conf, err := s.gateway.ConfirmPayment(gctx, intent.ID, input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if !conf.Success {
		failed, ferr := s.bookings.SettlePayment(ctx, record.ID, domain.PaymentStatusFailed, input.GuestName, input.GuestEmail, intent.ID)
		if ferr != nil {
			log.Printf("WARNING: mark share %s failed: %v", record.ID, ferr)
		} else {
			monitoring.CountPaymentRecord(string(failed.Status))
		}
		return nil, ErrPaymentDeclined
	}

	paid, err := s.bookings.SettlePayment(ctx, record.ID, domain.PaymentStatusPaid, input.GuestName, input.GuestEmail, intent.ID)
	if err != nil {
		// Another guest settled this share between our pending check and
		// the conditional update. They keep the seat; this payment needs
		// a refund, not a retry.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrShareNotPending
		}
		return nil, &PersistenceError{IntentID: intent.ID, Err: err}
	}
	monitoring.CountPaymentRecord(string(paid.Status))

	event := kafka.EventSharePaid
	if payments, lerr := s.bookings.ListPayments(ctx, booking.ID); lerr == nil {
		paidCount := 0
		for _, p := range payments {
			if p.Status == domain.PaymentStatusPaid {
				paidCount++
			}
		}
		if paidCount == booking.TotalGuests {
			event = kafka.EventBookingSettled
		}
		s.publish(ctx, event, booking, paidCount, booking.TotalGuests-paidCount)
	} else {
		s.publish(ctx, event, booking, 0, 0)
	}
	return paid, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	existing, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if existing.Status == domain.BookingStatusCancelled {
		return existing, nil
	}

	cancelled, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateSlots(ctx, cancelled.ActivityID)
	}
	monitoring.CountBooking("cancelled")
	s.publish(ctx, kafka.EventBookingCancelled, cancelled, 0, 0)
	return cancelled, nil
}

func (s *BookingService) ExpireUnpaidShares(ctx context.Context) ([]domain.PaymentRecord, error) {
	deadline := time.Now().Add(-s.shareTTL)
	expired, err := s.bookings.ExpirePendingBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}
	for _, rec := range expired {
		monitoring.CountPaymentRecord(string(rec.Status))
		booking, err := s.bookings.GetByID(ctx, rec.BookingID)
		if err != nil {
			continue
		}
		s.publish(ctx, kafka.EventShareExpired, booking, 0, 0)
	}
	return expired, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, paidCount, pendingCount int) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:             eventType,
		BookingID:        booking.ID,
		ConfirmationCode: booking.ConfirmationCode,
		ActivityID:       booking.ActivityID,
		SlotDate:         booking.SlotDate,
		SlotTime:         booking.SlotTime,
		TotalGuests:      booking.TotalGuests,
		PaidCount:        paidCount,
		PendingCount:     pendingCount,
		BookerEmail:      booking.BookerEmail,
		PaymentLinkURL:   booking.PaymentLinkURL,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ConfirmationCode, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, booking.ConfirmationCode, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ConfirmationCode, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for booking %s: %v", eventType, booking.ConfirmationCode, err)
		}
	}
}

func slotEndTime(start string, durationMin int) string {
	var h, m int
	if _, err := fmt.Sscanf(start, "%d:%d", &h, &m); err != nil {
		return start
	}
	end := (h*60 + m + durationMin) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", end/60, end%60)
}

var _ BookingUseCase = (*BookingService)(nil)
