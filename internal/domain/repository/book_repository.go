package repository

import (
	"context"

	"library/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrBookNotFound is returned when a book is not in the catalog.
var ErrBookNotFound = errors.New("book not found")

// BookRepository defines catalog persistence.
type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	// List returns the whole catalog, newest first.
	List(ctx context.Context) ([]*entity.Book, error)
	// ListRecent returns at most limit books ordered by creation time, newest first.
	ListRecent(ctx context.Context, limit int) ([]*entity.Book, error)
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
}
