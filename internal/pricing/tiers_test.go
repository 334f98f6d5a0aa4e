package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const basePrice int64 = 8000

func TestPricePerPerson_Tiers(t *testing.T) {
	testCases := []struct {
		name     string
		guests   int
		expected int64
	}{
		{"solo", 1, 30000},
		{"pair", 2, 15000},
		{"trio", 3, 10000},
		{"base tier", 4, basePrice},
		{"beyond base tier", 7, basePrice},
		{"zero treated as solo", 0, 30000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			price, err := PricePerPerson(basePrice, tc.guests)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, price)
		})
	}
}

func TestPricePerPerson_NegativeGuestsRejected(t *testing.T) {
	_, err := PricePerPerson(basePrice, -1)
	assert.ErrorIs(t, err, ErrInvalidGuestCount)
}

func TestPricePerPerson_NonIncreasing(t *testing.T) {
	prev, err := PricePerPerson(basePrice, 1)
	assert.NoError(t, err)

	for guests := 2; guests <= 12; guests++ {
		price, err := PricePerPerson(basePrice, guests)
		assert.NoError(t, err)
		assert.LessOrEqual(t, price, prev, "price must not increase at %d guests", guests)
		if guests >= BaseTierGuests {
			assert.Equal(t, basePrice, price, "price must stay at base from %d guests", guests)
		}
		prev = price
	}
}

func TestPriceWithNewGuests(t *testing.T) {
	// A trip with 3 seats taken priced for 1 more guest lands on the base tier.
	price, err := PriceWithNewGuests(basePrice, 3, 1)
	assert.NoError(t, err)
	assert.Equal(t, basePrice, price)

	// Empty trip, one guest joining: solo price.
	price, err = PriceWithNewGuests(basePrice, 0, 1)
	assert.NoError(t, err)
	assert.Equal(t, SoloPriceCents, price)

	_, err = PriceWithNewGuests(basePrice, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidGuestCount)
}

func TestTotalPrice(t *testing.T) {
	total, err := TotalPrice(basePrice, 2, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(30000), total)

	total, err = TotalPrice(basePrice, 4, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3*basePrice, total)

	_, err = TotalPrice(basePrice, 2, -1)
	assert.ErrorIs(t, err, ErrInvalidGuestCount)
}

func TestTierInfoFor_BelowBase(t *testing.T) {
	info, err := TierInfoFor(basePrice, 1, 1)
	assert.NoError(t, err)

	assert.Equal(t, PairPriceCents, info.CurrentPriceCents)
	assert.Equal(t, TrioPriceCents, info.NextTierPriceCents)
	assert.Equal(t, 1, info.GuestsNeededForNextTier)
	assert.False(t, info.AtBasePrice)
	assert.Equal(t, PairPriceCents-TrioPriceCents, info.SavingsIfMoreJoinCents)

	assert.Len(t, info.Tiers, 4)
	currentRows := 0
	for _, row := range info.Tiers {
		if row.Current {
			currentRows++
			assert.Equal(t, 2, row.Guests)
		}
	}
	assert.Equal(t, 1, currentRows)
}

func TestTierInfoFor_AtBase(t *testing.T) {
	info, err := TierInfoFor(basePrice, 3, 2)
	assert.NoError(t, err)

	assert.True(t, info.AtBasePrice)
	assert.Equal(t, basePrice, info.CurrentPriceCents)
	assert.Equal(t, 0, info.GuestsNeededForNextTier)
	assert.Zero(t, info.SavingsIfMoreJoinCents)

	last := info.Tiers[len(info.Tiers)-1]
	assert.True(t, last.Current)
	assert.Equal(t, 0, last.Guests)
}

func TestTierInfoFor_Deterministic(t *testing.T) {
	a, err := TierInfoFor(basePrice, 2, 1)
	assert.NoError(t, err)
	b, err := TierInfoFor(basePrice, 2, 1)
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}
