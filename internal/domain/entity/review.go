package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a member's rating of a book. UserName and UserProfileImage are a snapshot
// of the author taken when the review was written.
type Review struct {
	ID               uuid.UUID `json:"id"`
	BookID           uuid.UUID `json:"bookId"`
	UserID           uuid.UUID `json:"userId"`
	UserName         string    `json:"userName"`
	UserProfileImage string    `json:"userProfileImage"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// RatingInRange reports whether rating is within [MinRating, MaxRating].
func RatingInRange(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
