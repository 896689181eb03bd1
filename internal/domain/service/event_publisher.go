package service

import (
	"context"
	"time"
)

// Reservation event types.
const (
	EventReservationReserved = "reservation.reserved"
	EventReservationLoaned   = "reservation.loaned"
	EventReservationReturned = "reservation.returned"
)

// ReservationEvent is emitted after each reservation state change.
type ReservationEvent struct {
	RequestID     string    `json:"request_id,omitempty"` // For distributed tracing
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	BookID        string    `json:"book_id"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishReservationEvent publishes a reservation state change
	PublishReservationEvent(ctx context.Context, event *ReservationEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
