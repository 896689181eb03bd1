package impl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"library/config"
	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/lifecycle"
	"library/internal/domain/repository"
	"library/internal/domain/service"
	"library/internal/usecase"
	"library/internal/util"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	recentBooksLimit    = 2
	defaultMaxCoverSize = 2 << 20
)

var allowedCoverTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	bookRepo     repository.BookRepository
	coverStorage service.CoverStorage
	maxCoverSize int64
	now          func() time.Time
	cleanup      sync.WaitGroup
	logger       *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	Lc           fx.Lifecycle `optional:"true"`
	BookRepo     repository.BookRepository
	CoverStorage service.CoverStorage
	Config       *config.Config
	Logger       *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	maxCoverSize := int64(defaultMaxCoverSize)
	if params.Config != nil && params.Config.Upload != nil && params.Config.Upload.MaxCoverSize > 0 {
		maxCoverSize = params.Config.Upload.MaxCoverSize
	}

	srv := &catalogService{
		bookRepo:     params.BookRepo,
		coverStorage: params.CoverStorage,
		maxCoverSize: maxCoverSize,
		now:          time.Now,
		logger:       params.Logger,
	}

	if params.Lc != nil {
		params.Lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return waitWithContext(ctx, &srv.cleanup)
			},
		})
	}

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create validates the book, stores the cover when present and persists the record.
func (srv *catalogService) Create(ctx context.Context, input *usecase.BookInput, cover *usecase.CoverUpload) (*entity.Book, error) {
	book := &entity.Book{
		Title:       strings.TrimSpace(input.Title),
		Author:      strings.TrimSpace(input.Author),
		Description: input.Description,
		Year:        input.Year,
		Genre:       entity.Genre(input.Genre),
		PageCount:   input.PageCount,
		CoverType:   entity.CoverType(input.CoverType),
		ISBN:        strings.TrimSpace(input.ISBN),
	}
	if err := validateBook(book); err != nil {
		return nil, err
	}

	if cover != nil {
		location, err := srv.saveCover(ctx, cover)
		if err != nil {
			return nil, err
		}
		book.CoverImage = location
	}

	if err := srv.bookRepo.Create(ctx, book); err != nil {
		srv.removeCover(ctx, book.CoverImage)

		return nil, errors.Wrap(err, "failed to create book")
	}

	srv.log(ctx).Info("Book created", slog.String("bookID", book.ID.String()), slog.String("isbn", book.ISBN))

	return book, nil
}

// List returns the whole catalog, newest first.
func (srv *catalogService) List(ctx context.Context) ([]*entity.Book, error) {
	books, err := srv.bookRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}

	return books, nil
}

// Recent returns the two most recently added books.
func (srv *catalogService) Recent(ctx context.Context) ([]*entity.Book, error) {
	books, err := srv.bookRepo.ListRecent(ctx, recentBooksLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list recent books")
	}

	return books, nil
}

// Get returns a book by ID.
func (srv *catalogService) Get(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	book, err := srv.bookRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, domainerrors.ErrBookNotFound
		}

		return nil, errors.Wrap(err, "failed to find book")
	}

	return book, nil
}

// Update merges the non-empty fields into the book. A new cover replaces the old one,
// which is then removed in the background.
func (srv *catalogService) Update(ctx context.Context, id uuid.UUID, input *usecase.BookInput, cover *usecase.CoverUpload) (*entity.Book, error) {
	book, err := srv.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	mergeBook(book, input)
	if err := validateBook(book); err != nil {
		return nil, err
	}

	previousCover := book.CoverImage
	if cover != nil {
		location, err := srv.saveCover(ctx, cover)
		if err != nil {
			return nil, err
		}
		book.CoverImage = location
	}

	if err := srv.bookRepo.Update(ctx, book); err != nil {
		if book.CoverImage != previousCover {
			srv.removeCover(ctx, book.CoverImage)
		}
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, domainerrors.ErrBookNotFound
		}

		return nil, errors.Wrap(err, "failed to update book")
	}

	if book.CoverImage != previousCover {
		srv.removeCover(ctx, previousCover)
	}

	srv.log(ctx).Info("Book updated", slog.String("bookID", id.String()))

	return book, nil
}

// Delete removes the book and, in the background, its cover.
func (srv *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	book, err := srv.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := srv.bookRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return domainerrors.ErrBookNotFound
		}

		return errors.Wrap(err, "failed to delete book")
	}

	srv.removeCover(ctx, book.CoverImage)
	srv.log(ctx).Info("Book deleted", slog.String("bookID", id.String()))

	return nil
}

// saveCover enforces the size limit, sniffs the content type and writes <unix millis>-<name>.
func (srv *catalogService) saveCover(ctx context.Context, cover *usecase.CoverUpload) (string, error) {
	if cover.Size > srv.maxCoverSize {
		return "", domainerrors.ErrInvalidCoverImage.WithDetails("cover image exceeds "+util.FormatBytes(srv.maxCoverSize))
	}

	data, err := io.ReadAll(io.LimitReader(cover.Content, srv.maxCoverSize+1))
	if err != nil {
		return "", domainerrors.ErrCoverUploadFailed.WrapMessage(err.Error())
	}
	if int64(len(data)) > srv.maxCoverSize {
		return "", domainerrors.ErrInvalidCoverImage.WithDetails("cover image exceeds "+util.FormatBytes(srv.maxCoverSize))
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedCoverTypes...) {
		return "", domainerrors.ErrInvalidCoverImage.WithDetails("detected " + mtype.String())
	}

	name := fmt.Sprintf("%d-%s", srv.now().UnixMilli(), coverFileName(cover.Filename, mtype.Extension()))
	location, err := srv.coverStorage.Save(ctx, name, bytes.NewReader(data), mtype.String())
	if err != nil {
		srv.log(ctx).Error("Failed to store cover", slog.String("name", name), slog.Any("error", err))

		return "", domainerrors.ErrCoverUploadFailed.WrapMessage(err.Error())
	}

	return location, nil
}

// removeCover deletes a stored cover without blocking the request. Failures are only logged.
func (srv *catalogService) removeCover(ctx context.Context, location string) {
	if location == "" {
		return
	}

	logger := srv.log(ctx)
	bgCtx := context.WithoutCancel(ctx)

	srv.cleanup.Add(1)
	go func() {
		defer srv.cleanup.Done()

		deleteCtx, cancel := context.WithTimeout(bgCtx, lifecycle.DefaultTimeout)
		defer cancel()

		if err := srv.coverStorage.Delete(deleteCtx, location); err != nil {
			logger.Warn("Failed to remove cover image", slog.String("location", location), slog.Any("error", err))
		}
	}()
}

func validateBook(book *entity.Book) error {
	if book.Title == "" || book.Author == "" || book.ISBN == "" || strings.TrimSpace(book.Description) == "" {
		return domainerrors.ErrValidationFailed.WithDetails("title, author, description and isbn are required")
	}
	if !book.Genre.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("genre must be one of Fantasy, Horror, Drama, Thriller, Action, Fiction")
	}
	if !book.CoverType.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("cover type must be Hard or Soft")
	}
	if book.Year <= 0 {
		return domainerrors.ErrValidationFailed.WithDetails("year must be a positive number")
	}
	if book.PageCount <= 0 {
		return domainerrors.ErrValidationFailed.WithDetails("page count must be a positive number")
	}

	return nil
}

func mergeBook(book *entity.Book, input *usecase.BookInput) {
	setIfPresent(&book.Title, &input.Title)
	setIfPresent(&book.Author, &input.Author)
	setIfPresent(&book.ISBN, &input.ISBN)
	if input.Description != "" {
		book.Description = input.Description
	}
	if input.Year != 0 {
		book.Year = input.Year
	}
	if input.PageCount != 0 {
		book.PageCount = input.PageCount
	}
	if input.Genre != "" {
		book.Genre = entity.Genre(input.Genre)
	}
	if input.CoverType != "" {
		book.CoverType = entity.CoverType(input.CoverType)
	}
}

// coverFileName keeps letters, digits, dots, dashes and underscores of the uploaded base name.
func coverFileName(filename, extension string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	cleaned = strings.Trim(cleaned, ".-")
	if cleaned == "" {
		return "cover" + extension
	}

	return cleaned
}

// waitWithContext waits for wg or until ctx is done.
func waitWithContext(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}
