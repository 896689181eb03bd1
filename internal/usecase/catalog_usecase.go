package usecase

import (
	"context"
	"io"

	"library/internal/domain/entity"

	"github.com/google/uuid"
)

// BookInput holds book fields. On update, empty strings and zero numbers keep the current value.
type BookInput struct {
	Title       string
	Author      string
	Description string
	Year        int
	Genre       string
	PageCount   int
	CoverType   string
	ISBN        string
}

// CoverUpload is an uploaded cover image.
type CoverUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// CatalogUsecase defines the book catalog operations.
type CatalogUsecase interface {
	Create(ctx context.Context, input *BookInput, cover *CoverUpload) (*entity.Book, error)
	List(ctx context.Context) ([]*entity.Book, error)
	Recent(ctx context.Context) ([]*entity.Book, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	Update(ctx context.Context, id uuid.UUID, input *BookInput, cover *CoverUpload) (*entity.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
