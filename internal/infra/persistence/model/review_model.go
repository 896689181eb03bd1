package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewModel mirrors the 'reviews' table. user_name and user_profile_image snapshot the author.
type ReviewModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BookID           uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index"`
	UserName         string    `gorm:"type:varchar(200);not null"`
	UserProfileImage string    `gorm:"type:varchar(500);not null"`
	Rating           int       `gorm:"not null"`
	Comment          string    `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}
