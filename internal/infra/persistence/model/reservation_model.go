package model

import (
	"time"

	"github.com/google/uuid"
)

// ReservationModel mirrors the 'reservations' table. book_id and user_id carry no foreign keys,
// so a reservation outlives the book or user it references.
type ReservationModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BookID     uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Status     string    `gorm:"type:varchar(10);not null"`
	ReservedAt time.Time `gorm:"not null"`
	LoanedAt   *time.Time
	ReturnedAt *time.Time

	Book *BookModel `gorm:"foreignKey:BookID;references:ID"`
	User *UserModel `gorm:"foreignKey:UserID;references:ID"`
}

// TableName explicitly sets the table name for GORM.
func (ReservationModel) TableName() string {
	return "reservations"
}
