package repository

import (
	"context"

	"library/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrReviewNotFound is returned when a review does not exist.
var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository defines review persistence.
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	// ListByBook returns the reviews of a book, newest first. Author name and avatar are read
	// from the current user record, falling back to the snapshot when the user is gone.
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]*entity.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
