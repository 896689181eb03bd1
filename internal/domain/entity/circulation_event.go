package entity

import (
	"time"

	"github.com/google/uuid"
)

// MaxRequestIDLength bounds request IDs accepted from clients and stored with events.
const MaxRequestIDLength = 128

// CirculationEvent is a reservation state change kept in the circulation audit trail.
// MessageID identifies the delivery, so a redelivered message is stored once.
type CirculationEvent struct {
	ID            uuid.UUID         `json:"id"`
	MessageID     string            `json:"messageId"`
	Type          string            `json:"type"`
	ReservationID uuid.UUID         `json:"reservationId"`
	BookID        uuid.UUID         `json:"bookId"`
	UserID        uuid.UUID         `json:"userId"`
	Status        ReservationStatus `json:"status"`
	RequestID     string            `json:"requestId,omitempty"`
	OccurredAt    time.Time         `json:"occurredAt"`
	ReceivedAt    time.Time         `json:"receivedAt"`
}
