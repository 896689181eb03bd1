package postgres

import (
	"context"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Author name and avatar come from the live user row when it still exists.
const reviewWithAuthorColumns = `reviews.id, reviews.book_id, reviews.user_id,
	COALESCE(users.full_name, reviews.user_name) AS user_name,
	COALESCE(NULLIF(users.profile_image, ''), reviews.user_profile_image) AS user_profile_image,
	reviews.rating, reviews.comment, reviews.created_at, reviews.updated_at`

// reviewRepository implements the repository.ReviewRepository interface.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{
		db: db,
	}
}

// Create persists a new review.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		if isCheckConstraintViolation(err) && violatedConstraint(err) == constraintReviewsRating {
			return domainerrors.ErrInvalidRating
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// FindByID retrieves a review by its unique ID.
func (repo *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var reviewM model.ReviewModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&reviewM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by ID")
	}

	return toReviewDomain(&reviewM), nil
}

// ListByBook returns the reviews of a book, newest first.
func (repo *reviewRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*entity.Review, error) {
	var reviewModels []*model.ReviewModel

	if err := repo.db.WithContext(ctx).
		Table("reviews").
		Select(reviewWithAuthorColumns).
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.book_id = ?", bookID).
		Order("reviews.created_at DESC").
		Scan(&reviewModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list reviews by book")
	}

	reviews := make([]*entity.Review, 0, len(reviewModels))
	for _, reviewM := range reviewModels {
		reviews = append(reviews, toReviewDomain(reviewM))
	}

	return reviews, nil
}

// Delete removes a review by ID.
func (repo *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ReviewModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	return &entity.Review{
		ID:               data.ID,
		BookID:           data.BookID,
		UserID:           data.UserID,
		UserName:         data.UserName,
		UserProfileImage: data.UserProfileImage,
		Rating:           data.Rating,
		Comment:          data.Comment,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:               data.ID,
		BookID:           data.BookID,
		UserID:           data.UserID,
		UserName:         data.UserName,
		UserProfileImage: data.UserProfileImage,
		Rating:           data.Rating,
		Comment:          data.Comment,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}
