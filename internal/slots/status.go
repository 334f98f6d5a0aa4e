// Package slots derives trip slot status from seat counts and generates
// candidate slots for an activity over a date range.
package slots

import (
	"fmt"

	"github.com/reefcrew/seabooking/internal/domain"
)

// Status classifies a slot from seats filled, capacity and the
// minimum-to-run threshold. The rules are evaluated in order; exactly one
// status is returned for every valid input.
func Status(seatsFilled, capacity, minToRun int) domain.SlotStatus {
	switch {
	case seatsFilled >= capacity:
		return domain.SlotStatusFull
	case seatsFilled >= minToRun:
		return domain.SlotStatusConfirmed
	case seatsFilled >= minToRun-1:
		return domain.SlotStatusAlmostFull
	default:
		return domain.SlotStatusFilling
	}
}

// StatusMessage renders the user-facing line for a slot's fill state.
func StatusMessage(seatsFilled, capacity, minToRun int) string {
	switch Status(seatsFilled, capacity, minToRun) {
	case domain.SlotStatusFull:
		return "Fully booked"
	case domain.SlotStatusConfirmed:
		return fmt.Sprintf("Confirmed, %d spots left", capacity-seatsFilled)
	case domain.SlotStatusAlmostFull:
		return fmt.Sprintf("Almost there, %d/%d filled", seatsFilled, capacity)
	default:
		if seatsFilled == 0 {
			return "Be the first to join"
		}
		return fmt.Sprintf("%d/%d filled, %d left", seatsFilled, capacity, capacity-seatsFilled)
	}
}
