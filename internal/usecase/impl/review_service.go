package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
	userRepo   repository.UserRepository
	logger     *slog.Logger
}

// ReviewServiceParams holds dependencies for ReviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	ReviewRepo repository.ReviewRepository
	BookRepo   repository.BookRepository
	UserRepo   repository.UserRepository
	Logger     *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		reviewRepo: params.ReviewRepo,
		bookRepo:   params.BookRepo,
		userRepo:   params.UserRepo,
		logger:     params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create stores a review with a snapshot of the author's name and avatar.
func (srv *reviewService) Create(ctx context.Context, input *usecase.CreateReviewInput) (*entity.Review, error) {
	if !entity.RatingInRange(input.Rating) {
		return nil, domainerrors.ErrInvalidRating
	}

	if _, err := srv.bookRepo.FindByID(ctx, input.BookID); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, domainerrors.ErrBookNotFound
		}

		return nil, errors.Wrap(err, "failed to find book")
	}

	author, err := srv.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	review := &entity.Review{
		BookID:           input.BookID,
		UserID:           author.ID,
		UserName:         author.FullName,
		UserProfileImage: author.AvatarOrDefault(),
		Rating:           input.Rating,
		Comment:          strings.TrimSpace(input.Comment),
	}

	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		return nil, errors.Wrap(err, "failed to create review")
	}

	srv.log(ctx).Info("Review created",
		slog.String("reviewID", review.ID.String()),
		slog.String("bookID", review.BookID.String()),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// ListByBook returns the book's reviews, newest first.
func (srv *reviewService) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*entity.Review, error) {
	if _, err := srv.bookRepo.FindByID(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, domainerrors.ErrBookNotFound
		}

		return nil, errors.Wrap(err, "failed to find book")
	}

	reviews, err := srv.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	return reviews, nil
}

// Delete removes a review written by the requester.
func (srv *reviewService) Delete(ctx context.Context, reviewID, requesterID uuid.UUID) error {
	review, err := srv.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return domainerrors.ErrReviewNotFound
		}

		return errors.Wrap(err, "failed to find review")
	}

	if review.UserID != requesterID {
		return domainerrors.ErrForbidden.WithDetails("only the author can delete a review")
	}

	if err := srv.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return domainerrors.ErrReviewNotFound
		}

		return errors.Wrap(err, "failed to delete review")
	}

	return nil
}
