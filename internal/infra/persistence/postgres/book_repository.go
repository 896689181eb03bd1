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

// bookRepository implements the repository.BookRepository interface.
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository is the constructor for bookRepository.
func NewBookRepository(db *gorm.DB) repository.BookRepository {
	return &bookRepository{
		db: db,
	}
}

// Create persists a new book.
func (repo *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	bookM := fromBookDomain(book)

	if err := repo.db.WithContext(ctx).Create(bookM).Error; err != nil {
		return mapBookWriteError(err, "failed to create book")
	}

	book.ID = bookM.ID
	book.CreatedAt = bookM.CreatedAt
	book.UpdatedAt = bookM.UpdatedAt

	return nil
}

// FindByID retrieves a book by its unique ID.
func (repo *bookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	var bookM model.BookModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&bookM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookNotFound
		}

		return nil, errors.Wrap(err, "failed to find book by ID")
	}

	return toBookDomain(&bookM), nil
}

// List returns the whole catalog, newest first.
func (repo *bookRepository) List(ctx context.Context) ([]*entity.Book, error) {
	return repo.list(ctx, 0)
}

// ListRecent returns the newest books, at most limit of them.
func (repo *bookRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Book, error) {
	return repo.list(ctx, limit)
}

func (repo *bookRepository) list(ctx context.Context, limit int) ([]*entity.Book, error) {
	var bookModels []*model.BookModel

	query := repo.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&bookModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}

	books := make([]*entity.Book, 0, len(bookModels))
	for _, bookM := range bookModels {
		books = append(books, toBookDomain(bookM))
	}

	return books, nil
}

// Update overwrites every mutable column of the book.
func (repo *bookRepository) Update(ctx context.Context, book *entity.Book) error {
	bookM := fromBookDomain(book)

	result := repo.db.WithContext(ctx).
		Model(bookM).
		Select("*").
		Omit("id", "created_at").
		Updates(bookM)
	if result.Error != nil {
		return mapBookWriteError(result.Error, "failed to update book")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBookNotFound
	}

	book.UpdatedAt = bookM.UpdatedAt

	return nil
}

// Delete removes a book. Reservations and reviews of the book are kept.
func (repo *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.BookModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete book")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBookNotFound
	}

	return nil
}

func mapBookWriteError(err error, details string) error {
	if isUniqueConstraintViolation(err) {
		return domainerrors.ErrIsbnAlreadyExists.WrapMessage(details)
	}
	if isCheckConstraintViolation(err) || isNotNullConstraintViolation(err) {
		return domainerrors.ErrValidationFailed.WithDetails("invalid book information")
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}

func toBookDomain(data *model.BookModel) *entity.Book {
	if data == nil {
		return nil
	}

	return &entity.Book{
		ID:          data.ID,
		Title:       data.Title,
		Author:      data.Author,
		Description: data.Description,
		Year:        data.Year,
		Genre:       entity.Genre(data.Genre),
		PageCount:   data.PageCount,
		CoverType:   entity.CoverType(data.CoverType),
		ISBN:        data.ISBN,
		CoverImage:  data.CoverImage,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromBookDomain(data *entity.Book) *model.BookModel {
	if data == nil {
		return nil
	}

	return &model.BookModel{
		ID:          data.ID,
		Title:       data.Title,
		Author:      data.Author,
		Description: data.Description,
		Year:        data.Year,
		Genre:       string(data.Genre),
		PageCount:   data.PageCount,
		CoverType:   string(data.CoverType),
		ISBN:        data.ISBN,
		CoverImage:  data.CoverImage,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
