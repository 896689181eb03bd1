package usecase

import (
	"context"

	"library/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateReviewInput defines the data required to review a book.
type CreateReviewInput struct {
	BookID  uuid.UUID
	UserID  uuid.UUID
	Rating  int
	Comment string
}

// ReviewUsecase defines the review operations.
type ReviewUsecase interface {
	Create(ctx context.Context, input *CreateReviewInput) (*entity.Review, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]*entity.Review, error)
	Delete(ctx context.Context, reviewID, requesterID uuid.UUID) error
}
