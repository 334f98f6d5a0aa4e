package domain

import "time"

type ActivityCategory string

const (
	CategoryEfoil   ActivityCategory = "EFOIL"
	CategoryBoat    ActivityCategory = "BOAT"
	CategorySnorkel ActivityCategory = "SNORKEL"
	CategoryFishing ActivityCategory = "FISHING"
	CategoryPrivate ActivityCategory = "PRIVATE"
)

// Activity is immutable catalog data loaded from the store; it is never
// mutated at runtime.
type Activity struct {
	ID             int64
	Title          string
	Category       ActivityCategory
	DurationMin    int
	SeatPriceCents int64
	BoatPriceCents int64
	Capacity       int
	MinToRun       int
	IsPrivate      bool
	Rating         float64
	ReviewCount    int
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
