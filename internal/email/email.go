package email

import (
	"context"
	"fmt"

	"github.com/reefcrew/seabooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email to %s about %s for booking %s (%d/%d paid)\n",
		event.BookerEmail, event.Type, event.ConfirmationCode, event.PaidCount, event.TotalGuests)
	return nil
}
