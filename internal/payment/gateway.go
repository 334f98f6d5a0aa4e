// Package payment abstracts the card processor behind a small
// request/response contract so the booking flow never touches provider
// SDK types directly.
package payment

import (
	"context"
	"fmt"
)

type IntentRequest struct {
	AmountCents int64
	Currency    string
	Description string
	Email       string
	Metadata    map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountCents  int64
}

type Confirmation struct {
	IntentID string
	Success  bool
	Status   string
}

type LinkRequest struct {
	AmountCents int64
	Currency    string
	ProductName string
	Description string
	Metadata    map[string]string
	SuccessURL  string
}

type Link struct {
	ID  string
	URL string
}

// Gateway is the payment processor contract. Calls honor the passed
// context's deadline; a timed-out call is treated as failed and commits
// nothing.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	ConfirmPayment(ctx context.Context, intentID, paymentMethod string) (*Confirmation, error)
	RetrievePaymentIntent(ctx context.Context, intentID string) (*Intent, error)
	CreatePaymentLink(ctx context.Context, req LinkRequest) (*Link, error)
}

// Error wraps any gateway failure. These are retryable by the caller; the
// booking flow must not have committed state before one is returned.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }
