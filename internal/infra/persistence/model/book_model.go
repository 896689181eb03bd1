package model

import (
	"time"

	"github.com/google/uuid"
)

// BookModel mirrors the 'books' table.
type BookModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Author      string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text;not null"`
	Year        int       `gorm:"not null"`
	Genre       string    `gorm:"type:varchar(20);not null"`
	PageCount   int       `gorm:"not null"`
	CoverType   string    `gorm:"type:varchar(10);not null"`
	ISBN        string    `gorm:"column:isbn;type:varchar(20);uniqueIndex:books_isbn_key;not null"`
	CoverImage  string    `gorm:"type:varchar(500)"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (BookModel) TableName() string {
	return "books"
}
