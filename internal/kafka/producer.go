package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	EventBookingCreated   = "booking_created"
	EventSharePaid        = "share_paid"
	EventShareExpired     = "share_expired"
	EventBookingSettled   = "booking_settled"
	EventBookingCancelled = "booking_cancelled"
)

type BookingEvent struct {
	Type             string `json:"type"`
	BookingID        int64  `json:"booking_id"`
	ConfirmationCode string `json:"confirmation_code"`
	ActivityID       int64  `json:"activity_id"`
	SlotDate         string `json:"slot_date"`
	SlotTime         string `json:"slot_time"`
	TotalGuests      int    `json:"total_guests"`
	PaidCount        int    `json:"paid_count"`
	PendingCount     int    `json:"pending_count"`
	BookerEmail      string `json:"booker_email"`
	PaymentLinkURL   string `json:"payment_link_url,omitempty"`
}

type Producer struct {
	brokers []string
	writer  *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
