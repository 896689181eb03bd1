package model

import (
	"time"

	"github.com/google/uuid"
)

// CirculationEventModel mirrors the 'circulation_events' table.
type CirculationEventModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MessageID     string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	Type          string    `gorm:"type:varchar(50);not null"`
	ReservationID uuid.UUID `gorm:"type:uuid;not null;index"`
	BookID        uuid.UUID `gorm:"type:uuid;not null"`
	UserID        uuid.UUID `gorm:"type:uuid;not null"`
	Status        string    `gorm:"type:varchar(20);not null"`
	RequestID     string    `gorm:"type:varchar(128)"`
	OccurredAt    time.Time `gorm:"not null"`
	ReceivedAt    time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (CirculationEventModel) TableName() string {
	return "circulation_events"
}
