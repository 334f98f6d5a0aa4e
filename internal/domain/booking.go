package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// Booking is a reservation of TotalGuests seats on one TripSlot by one
// booker. Once confirmed it is immutable except for the state of its
// payment records.
type Booking struct {
	ID                 int64
	ConfirmationCode   string
	ActivityID         int64
	SlotID             int64
	SlotDate           string
	SlotTime           string
	TotalGuests        int
	PricePerGuestCents int64
	BookerName         string
	BookerEmail        string
	BookerWhatsapp     string
	PaymentLinkID      string
	PaymentLinkURL     string
	Status             BookingStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PaymentRecord tracks one guest's share of a shared booking. Exactly one
// record per booking has IsBooker set and is created already paid; the rest
// start pending and settle independently as guests follow the shared link.
type PaymentRecord struct {
	ID              string
	BookingID       int64
	GuestName       string
	GuestEmail      string
	AmountCents     int64
	Status          PaymentStatus
	IsBooker        bool
	PaymentIntentID string
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
