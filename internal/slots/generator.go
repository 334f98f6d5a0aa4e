package slots

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/reefcrew/seabooking/internal/domain"
	"github.com/reefcrew/seabooking/internal/pricing"
)

const minutesPerDay = 24 * 60

// crewBadges are anonymized identifiers shown for guests already on a slot.
var crewBadges = []string{"Reef Crew", "Lagoon Squad", "Sunset Gang", "Island Hoppers", "Blue Fin Crew"}

// Generator produces candidate trip slots for an activity over a date
// range. Occupancy comes from the injected provider so the demo simulation
// and real booked-seat counts are interchangeable.
type Generator struct {
	occupancy OccupancyProvider
	now       func() time.Time
}

func NewGenerator(occupancy OccupancyProvider) *Generator {
	return &Generator{occupancy: occupancy, now: time.Now}
}

// NewGeneratorAt fixes the clock, for tests.
func NewGeneratorAt(occupancy OccupancyProvider, now func() time.Time) *Generator {
	return &Generator{occupancy: occupancy, now: now}
}

// Generate returns slots for each of daysAhead days starting today.
// Candidate start hours whose end time would cross midnight are skipped for
// that activity.
func (g *Generator) Generate(ctx context.Context, activity *domain.Activity, daysAhead int) ([]domain.TripSlot, error) {
	if daysAhead < 1 {
		daysAhead = 1
	}

	hours := startHoursFor(activity)
	start := g.now()
	out := make([]domain.TripSlot, 0, daysAhead*len(hours))

	for day := 0; day < daysAhead; day++ {
		date := start.AddDate(0, 0, day).Format("2006-01-02")
		for _, hour := range hours {
			startMin := hour * 60
			endMin := startMin + activity.DurationMin
			if endMin >= minutesPerDay {
				continue
			}

			filled, err := g.occupancy.SeatsFilled(ctx, activity.ID, date, formatMinutes(startMin), activity.Capacity)
			if err != nil {
				return nil, fmt.Errorf("occupancy for activity %d on %s: %w", activity.ID, date, err)
			}
			if filled > activity.Capacity {
				filled = activity.Capacity
			}

			unit, err := pricing.PriceWithNewGuests(activity.SeatPriceCents, filled, 1)
			if err != nil {
				return nil, err
			}

			out = append(out, domain.TripSlot{
				ActivityID:        activity.ID,
				Date:              date,
				StartTime:         formatMinutes(startMin),
				EndTime:           formatMinutes(endMin),
				Capacity:          activity.Capacity,
				MinToRun:          activity.MinToRun,
				SeatsFilled:       filled,
				Status:            Status(filled, activity.Capacity, activity.MinToRun),
				PricePerSeatCents: unit,
				Badges:            badgesFor(filled),
			})
		}
	}
	return out, nil
}

func startHoursFor(activity *domain.Activity) []int {
	title := strings.ToLower(activity.Title)
	switch {
	case strings.Contains(title, "sunset"):
		return []int{16, 17, 18}
	case strings.Contains(title, "dolphin"):
		return []int{6, 7, 8}
	case activity.Category == domain.CategoryEfoil:
		return []int{7, 9, 11, 14, 16}
	default:
		return []int{9, 11, 14, 16}
	}
}

func badgesFor(seatsFilled int) []string {
	if seatsFilled <= 0 {
		return nil
	}
	n := seatsFilled
	if n > 3 {
		n = 3
	}
	return append([]string(nil), crewBadges[:n]...)
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
