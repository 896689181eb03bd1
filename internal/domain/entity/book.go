package entity

import (
	"time"

	"github.com/google/uuid"
)

// Genre is one of the fixed catalog categories.
type Genre string

const (
	GenreFantasy  Genre = "Fantasy"
	GenreHorror   Genre = "Horror"
	GenreDrama    Genre = "Drama"
	GenreThriller Genre = "Thriller"
	GenreAction   Genre = "Action"
	GenreFiction  Genre = "Fiction"
)

// IsValid checks if the Genre is one of the catalog categories.
func (g Genre) IsValid() bool {
	switch g {
	case GenreFantasy, GenreHorror, GenreDrama, GenreThriller, GenreAction, GenreFiction:
		return true
	default:
		return false
	}
}

// CoverType is the binding of a book.
type CoverType string

const (
	CoverTypeHard CoverType = "Hard"
	CoverTypeSoft CoverType = "Soft"
)

// IsValid checks if the CoverType is hard or soft.
func (c CoverType) IsValid() bool {
	return c == CoverTypeHard || c == CoverTypeSoft
}

// Book is a catalog entry. ISBN is unique across the catalog.
type Book struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Year        int       `json:"year"`
	Genre       Genre     `json:"genre"`
	PageCount   int       `json:"pageCount"`
	CoverType   CoverType `json:"coverType"`
	ISBN        string    `json:"isbn"`
	CoverImage  string    `json:"coverImage,omitempty"` // Storage path or URL of the cover, empty when none.
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
