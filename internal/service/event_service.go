package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"assessments/internal/db"
	"assessments/internal/utils"
	"github.com/segmentio/kafka-go"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCanceled  = "booking.canceled"
)

type BookingEvent struct {
	Type       string `json:"type"`
	BookingID  string `json:"bookingId"`
	SessionID  string `json:"sessionId,omitempty"`
	StartsAt   string `json:"startsAtUtc,omitempty"`
	EndsAt     string `json:"endsAtUtc,omitempty"`
	OccurredAt string `json:"occurredAt"`
}

func NewBookingEvent(eventType string, b db.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		SessionID:  b.StripeSessionID,
		StartsAt:   utils.FormatUTC(b.StartsAt),
		EndsAt:     utils.FormatUTC(b.EndsAt),
		OccurredAt: utils.FormatUTC(at),
	}
}

type EventPublisher interface {
	Publish(ctx context.Context, e BookingEvent) error
	Close() error
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BookingEvent) error { return nil }
func (NopPublisher) Close() error                                { return nil }

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
	}, nil
}

// Publish keys messages by booking ID so events for one slot stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, e BookingEvent) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", e.Type, err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.BookingID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", e.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
