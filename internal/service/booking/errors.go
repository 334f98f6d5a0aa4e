package booking

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrInvalidGuestCount = errors.New("guest count is out of range for this activity")
	ErrInvalidContact    = errors.New("booker name and a valid email are required")
	ErrSlotFull          = errors.New("slot does not have enough seats left")
	ErrActivityNotFound  = errors.New("activity not found")
	ErrSlotNotFound      = errors.New("slot not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrShareNotFound     = errors.New("payment share not found")
	ErrShareNotPending   = errors.New("payment share is not pending")
	ErrBookingInProgress = errors.New("a booking for this slot is already in progress")
	ErrPaymentDeclined   = errors.New("payment was declined")
)

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PersistenceError means the store write failed after the booker was
// charged. It carries the payment intent id so support can reconcile or
// refund; callers must never mask it as success.
type PersistenceError struct {
	IntentID string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("booking not persisted after successful charge (payment reference %s): %v", e.IntentID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
