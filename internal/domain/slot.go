package domain

import "time"

type SlotStatus string

const (
	SlotStatusFilling    SlotStatus = "FILLING"
	SlotStatusAlmostFull SlotStatus = "ALMOST_FULL"
	SlotStatusConfirmed  SlotStatus = "CONFIRMED"
	SlotStatusFull       SlotStatus = "FULL"
)

// TripSlot is one bookable instance of an Activity at a specific date and
// time. SeatsFilled is the only mutable field; it moves up on successful
// bookings and down only through cancellation. Status and PricePerSeatCents
// are derived on every read, never stored authoritatively.
type TripSlot struct {
	ID                int64
	ActivityID        int64
	Date              string // YYYY-MM-DD
	StartTime         string // HH:MM
	EndTime           string // HH:MM
	Capacity          int
	MinToRun          int
	SeatsFilled       int
	Status            SlotStatus
	PricePerSeatCents int64
	Badges            []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
