// Package pricing implements the group-fill price tiers: the per-seat price
// drops as more guests join a shared trip, down to the activity's base price
// once four or more seats are taken.
package pricing

import "errors"

const (
	SoloPriceCents int64 = 30000
	PairPriceCents int64 = 15000
	TrioPriceCents int64 = 10000

	// BaseTierGuests is the guest count at which the per-seat price
	// reaches the activity's base price and stops dropping.
	BaseTierGuests = 4
)

var ErrInvalidGuestCount = errors.New("pricing: guest count must not be negative")

// PricePerPerson returns the per-seat price in cents for a trip carrying
// totalGuests seats. A count of zero is priced as solo. Negative counts are
// rejected.
func PricePerPerson(basePriceCents int64, totalGuests int) (int64, error) {
	if totalGuests < 0 {
		return 0, ErrInvalidGuestCount
	}
	switch {
	case totalGuests <= 1:
		return SoloPriceCents, nil
	case totalGuests == 2:
		return PairPriceCents, nil
	case totalGuests == 3:
		return TrioPriceCents, nil
	default:
		return basePriceCents, nil
	}
}

// PriceWithNewGuests prices a seat assuming newGuests join a trip already
// carrying currentGuests.
func PriceWithNewGuests(basePriceCents int64, currentGuests, newGuests int) (int64, error) {
	if currentGuests < 0 || newGuests < 0 {
		return 0, ErrInvalidGuestCount
	}
	return PricePerPerson(basePriceCents, currentGuests+newGuests)
}

// TotalPrice returns the amount owed for seatsPriced seats on a trip
// carrying totalGuests.
func TotalPrice(basePriceCents int64, totalGuests, seatsPriced int) (int64, error) {
	if seatsPriced < 0 {
		return 0, ErrInvalidGuestCount
	}
	unit, err := PricePerPerson(basePriceCents, totalGuests)
	if err != nil {
		return 0, err
	}
	return unit * int64(seatsPriced), nil
}

// TierRow is one line of the displayed tier table. Guests is 0 for the
// open-ended base tier.
type TierRow struct {
	Guests     int
	Label      string
	PriceCents int64
	Current    bool
}

// TierInfo carries everything the incentive messaging needs. It is a pure
// function of (currentGuests, newGuests).
type TierInfo struct {
	CurrentPriceCents       int64
	NextTierPriceCents      int64
	GuestsNeededForNextTier int
	AtBasePrice             bool
	SavingsIfMoreJoinCents  int64
	Tiers                   []TierRow
}

// TierInfoFor describes the tier reached when newGuests join a trip already
// carrying currentGuests, and what joining guests would still save.
func TierInfoFor(basePriceCents int64, currentGuests, newGuests int) (*TierInfo, error) {
	total := currentGuests + newGuests
	current, err := PricePerPerson(basePriceCents, total)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		total = 1
	}

	info := &TierInfo{
		CurrentPriceCents: current,
		AtBasePrice:       total >= BaseTierGuests,
	}
	if !info.AtBasePrice {
		next, _ := PricePerPerson(basePriceCents, total+1)
		info.NextTierPriceCents = next
		info.GuestsNeededForNextTier = 1
		if diff := current - next; diff > 0 && newGuests > 0 {
			info.SavingsIfMoreJoinCents = diff * int64(newGuests)
		}
	}

	rows := []struct {
		guests int
		label  string
		price  int64
	}{
		{1, "1 guest", SoloPriceCents},
		{2, "2 guests", PairPriceCents},
		{3, "3 guests", TrioPriceCents},
		{0, "4+ guests", basePriceCents},
	}
	for _, r := range rows {
		active := r.guests == total || (r.guests == 0 && total >= BaseTierGuests)
		info.Tiers = append(info.Tiers, TierRow{
			Guests:     r.guests,
			Label:      r.label,
			PriceCents: r.price,
			Current:    active,
		})
	}
	return info, nil
}
